package formstate

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// InputOption tunes how a value change is handled.
type InputOption func(*inputConfig)

type inputConfig struct {
	validate             validation.Func
	skipValidation       bool
	additionallyOnChange func()
	validateOnBlur       bool
	sanitize             bool
}

// WithValidate validates the new value with fn instead of the rule
// registered for the property.
func WithValidate(fn validation.Func) InputOption {
	return func(cfg *inputConfig) {
		cfg.validate = fn
	}
}

// SkipValidationOnChange assigns the value without validating it.
func SkipValidationOnChange() InputOption {
	return func(cfg *inputConfig) {
		cfg.skipValidation = true
	}
}

// AdditionallyOnChange runs fn after the value is assigned and validated,
// before the broadcast.
func AdditionallyOnChange(fn func()) InputOption {
	return func(cfg *inputConfig) {
		cfg.additionallyOnChange = fn
	}
}

// ValidateOnBlur validates the input again on Input.Blur, on top of the
// validation that runs on every change.
func ValidateOnBlur() InputOption {
	return func(cfg *inputConfig) {
		cfg.validateOnBlur = true
	}
}

// Sanitize strips markup from string values of this input even when the
// form has no sanitizer.
func Sanitize() InputOption {
	return func(cfg *inputConfig) {
		cfg.sanitize = true
	}
}

func resolveInput(opts []InputOption) inputConfig {
	cfg := inputConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// OnValueChange is the single entry point for input driven mutations: it
// assigns value to property on node (the root when node is nil), validates
// the property, runs the AdditionallyOnChange hook, marks the form touched
// and broadcasts. Assignment and validation errors are returned before
// anything is broadcast.
func (fs *FormState) OnValueChange(value any, node *model.Node, property string, opts ...InputOption) error {
	return fs.change(value, node, property, resolveInput(opts))
}

func (fs *FormState) change(value any, node *model.Node, property string, cfg inputConfig) error {
	if node == nil {
		node = fs.root
	}
	if err := node.Set(property, fs.clean(value, cfg)); err != nil {
		return err
	}
	if err := fs.runValidate(node, property, cfg); err != nil {
		return err
	}
	if cfg.additionallyOnChange != nil {
		cfg.additionallyOnChange()
	}
	fs.touched = true
	fs.Update()
	return nil
}

func (fs *FormState) runValidate(node *model.Node, property string, cfg inputConfig) error {
	v := node.Validator()
	switch {
	case cfg.skipValidation:
	case cfg.validate != nil:
		v.HandleResult(property, cfg.validate(node.Get(property)))
	case v.Has(property):
		if _, _, err := v.Invoke(property); err != nil {
			return err
		}
	default:
		fs.logger.Warn("no validation registered for property", "type", node.Type().Name(), "property", property)
	}
	if fs.validateAllOnChange {
		return fs.ValidateAll(ValidateArgs{SkipUpdate: true})
	}
	return nil
}
