package formstate

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/subscription"
)

// Input binds one property of a node to an observer. It is notified only
// when the node, the property value or its first error changes.
type Input struct {
	fs       *FormState
	node     *model.Node
	property string
	cfg      inputConfig
	observer *subscription.Observer[*FormState]
}

// Bind observes property on node (the root when node is nil). notify runs
// when the input should re-render; it should call Render once done.
func (fs *FormState) Bind(node *model.Node, property string, notify func(), opts ...InputOption) *Input {
	if node == nil {
		node = fs.root
	}
	in := &Input{
		fs:       fs,
		node:     node,
		property: property,
		cfg:      resolveInput(opts),
	}
	in.observer = fs.Observe(notify, subscription.Options[*FormState]{
		Deps: func(*FormState) []any {
			return []any{in.node, in.node.Get(in.property), in.node.Validator().FirstErrorFor(in.property)}
		},
	})
	return in
}

// Node returns the bound node.
func (in *Input) Node() *model.Node {
	return in.node
}

// Property returns the bound property name.
func (in *Input) Property() string {
	return in.property
}

// Value returns the current value.
func (in *Input) Value() any {
	return in.node.Get(in.property)
}

// Text returns the current value as text.
func (in *Input) Text() string {
	return in.node.Text(in.property)
}

// FirstError returns the first error of the property, or "".
func (in *Input) FirstError() string {
	return in.node.Validator().FirstErrorFor(in.property)
}

// IsValid reports whether the property carries no errors.
func (in *Input) IsValid() bool {
	return in.node.Validator().IsPropertyValid(in.property)
}

// Change routes value through OnValueChange with the input's options.
func (in *Input) Change(value any) error {
	return in.fs.change(value, in.node, in.property, in.cfg)
}

// Blur validates the property again when the input was bound with
// ValidateOnBlur and broadcasts the result. Otherwise it does nothing.
func (in *Input) Blur() error {
	if !in.cfg.validateOnBlur {
		return nil
	}
	if err := in.fs.runValidate(in.node, in.property, in.cfg); err != nil {
		return err
	}
	in.fs.Update()
	return nil
}

// Render records that the input rendered.
func (in *Input) Render() {
	in.observer.Render()
}

// Close stops observing the form.
func (in *Input) Close() {
	in.observer.Close()
}
