package validation

import (
	"errors"
	"fmt"
	"sync"

	gvalidator "github.com/go-playground/validator/v10"
)

var (
	tagValidatorOnce sync.Once
	tagValidator     *gvalidator.Validate
)

func tags() *gvalidator.Validate {
	tagValidatorOnce.Do(func() {
		tagValidator = gvalidator.New(gvalidator.WithRequiredStructEnabled())
	})
	return tagValidator
}

// Tag builds a Func backed by go-playground/validator field tags, e.g.
// Tag("required,email") or Tag("min=3,max=50"). The failing tag name is used
// as the message unless message is supplied. A malformed tag panics on first
// use, the same way the underlying library reports programmer errors.
func Tag(tag string, message ...string) Func {
	return func(value any) Result {
		err := tags().Var(value, tag)
		if err == nil {
			return Pass()
		}
		var fieldErrs gvalidator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return Fail(pick(message, err.Error()))
		}
		return Fail(pick(message, tagMessage(fieldErrs[0])))
	}
}

func tagMessage(fe gvalidator.FieldError) string {
	if fe.Param() == "" {
		return fmt.Sprintf("errors.%s", fe.Tag())
	}
	return fmt.Sprintf("errors.%s:%s", fe.Tag(), fe.Param())
}
