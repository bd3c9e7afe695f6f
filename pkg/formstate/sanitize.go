package formstate

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user supplied text. *bluemonday.Policy satisfies it.
type Sanitizer interface {
	Sanitize(s string) string
}

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// StrictSanitizer returns a shared policy that strips every HTML element.
func StrictSanitizer() Sanitizer {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func (fs *FormState) clean(value any, cfg inputConfig) any {
	raw, ok := value.(string)
	if !ok {
		return value
	}
	policy := fs.sanitizer
	if policy == nil && cfg.sanitize {
		policy = StrictSanitizer()
	}
	if policy == nil {
		return value
	}
	return policy.Sanitize(raw)
}
