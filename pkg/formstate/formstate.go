// Package formstate ties a node tree to a subscription engine. Every change
// coming from an input goes through OnValueChange, which assigns the value,
// validates it and broadcasts the new state to the observers.
package formstate

import (
	"github.com/goliatone/go-formstate/pkg/logging"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/subscription"
)

// FormState is the shared state of one form. It is not safe for concurrent
// use; drive it from the goroutine that owns the form.
type FormState struct {
	*subscription.Engine[*FormState]

	root                *model.Node
	touched             bool
	validateAllOnChange bool
	sanitizer           Sanitizer
	logger              logging.Logger
}

// Option configures a FormState.
type Option func(*FormState)

// WithLogger sets the logger used for developer warnings.
func WithLogger(logger logging.Logger) Option {
	return func(fs *FormState) {
		if logger != nil {
			fs.logger = logger
		}
	}
}

// WithValidateAllOnChange runs ValidateAll after every value change.
func WithValidateAllOnChange(enabled bool) Option {
	return func(fs *FormState) {
		fs.validateAllOnChange = enabled
	}
}

// WithSanitizer cleans every string value before it is assigned.
func WithSanitizer(s Sanitizer) Option {
	return func(fs *FormState) {
		fs.sanitizer = s
	}
}

func newState(opts []Option) *FormState {
	fs := &FormState{}
	for _, opt := range opts {
		if opt != nil {
			opt(fs)
		}
	}
	fs.logger = logging.OrDefault(fs.logger)
	fs.Engine = subscription.New(fs)
	return fs
}

// New builds a form state around root.
func New(root *model.Node, opts ...Option) *FormState {
	fs := newState(opts)
	fs.root = root
	return fs
}

// Make builds the root node through model.Make and wraps it in a form
// state. The form logger is used for the node unless cfg sets one.
func Make(cfg model.Config, opts ...Option) *FormState {
	fs := newState(opts)
	if cfg.Logger == nil {
		cfg.Logger = fs.logger
	}
	fs.root = model.Make(cfg)
	return fs
}

// Root returns the root node.
func (fs *FormState) Root() *model.Node {
	return fs.root
}

// Touched reports whether a value changed through OnValueChange since the
// form was built or reset.
func (fs *FormState) Touched() bool {
	return fs.touched
}

// ValidateAllOnChange reports whether every change validates the whole
// tree.
func (fs *FormState) ValidateAllOnChange() bool {
	return fs.validateAllOnChange
}

// ValidateArgs tunes ValidateAll.
type ValidateArgs struct {
	// Methods runs these validations on the root instead of its defaults.
	Methods []string
	// SkipNested leaves related nodes alone.
	SkipNested bool
	// SkipUpdate does not broadcast after validating.
	SkipUpdate bool
}

// ValidateAll validates the root node and, unless told otherwise, every
// related node, then broadcasts. An unknown validation name aborts the run
// and nothing is broadcast.
func (fs *FormState) ValidateAll(args ValidateArgs) error {
	v := fs.root.Validator()
	if len(args.Methods) > 0 {
		if err := v.Validate(model.Named(args.Methods...)...); err != nil {
			return err
		}
		if !args.SkipNested {
			if err := v.ValidateRelated(); err != nil {
				return err
			}
		}
	} else if err := v.ValidateDefault(!args.SkipNested); err != nil {
		return err
	}
	if !args.SkipUpdate {
		fs.Update()
	}
	return nil
}

// IsValid reports whether the whole tree is free of errors.
func (fs *FormState) IsValid() bool {
	return fs.root.Validator().IsValid()
}

// Reset clears every error in the tree, marks the form untouched and
// broadcasts.
func (fs *FormState) Reset() {
	fs.root.Validator().ResetErrors()
	fs.touched = false
	fs.Update()
}
