package model

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formstate/internal/equal"
	"github.com/goliatone/go-formstate/pkg/logging"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Rule validates the current value of a property. The owning node and its
// validator are passed along for cross-field checks.
type Rule func(value any, node *Node, v *Validator) validation.Result

type namedRule struct {
	property   string
	check      Rule
	skipCached bool
}

// Validator runs validations against its node, writes the results into the
// node's error store and caches the last validated value per property.
type Validator struct {
	node     *Node
	cache    map[string]any
	rules    map[string]namedRule
	order    []string
	defaults []string
}

func newValidator(n *Node) *Validator {
	return &Validator{
		node:  n,
		cache: make(map[string]any),
		rules: make(map[string]namedRule),
	}
}

// Node returns the node the validator belongs to.
func (v *Validator) Node() *Node {
	return v.node
}

func (v *Validator) logger() logging.Logger {
	return logging.OrDefault(v.node.logger)
}

// ValidateOption tunes Register and ValidateProperty.
type ValidateOption func(*ruleConfig)

type ruleConfig struct {
	property   string
	asDefault  bool
	skipCached bool
}

// SkipCached skips the run when the property still holds the value it had at
// its last validation.
func SkipCached() ValidateOption {
	return func(cfg *ruleConfig) {
		cfg.skipCached = true
	}
}

// AsDefault adds a registered rule to the default validations run by
// ValidateDefault.
func AsDefault() ValidateOption {
	return func(cfg *ruleConfig) {
		cfg.asDefault = true
	}
}

// ForProperty validates property instead of the property named like the
// rule.
func ForProperty(property string) ValidateOption {
	return func(cfg *ruleConfig) {
		cfg.property = property
	}
}

func resolveRuleConfig(opts []ValidateOption) ruleConfig {
	cfg := ruleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Register adds a named validation. By convention the name is the property
// it validates. Registering an existing name replaces the rule in place.
func (v *Validator) Register(name string, check Rule, opts ...ValidateOption) {
	if name == "" || check == nil {
		return
	}
	cfg := resolveRuleConfig(opts)
	property := cfg.property
	if property == "" {
		property = name
	}
	if _, exists := v.rules[name]; !exists {
		v.order = append(v.order, name)
	}
	v.rules[name] = namedRule{property: property, check: check, skipCached: cfg.skipCached}
	if cfg.asDefault && !contains(v.defaults, name) {
		v.defaults = append(v.defaults, name)
	}
}

// RegisterFunc registers a value-only validate function under name.
func (v *Validator) RegisterFunc(name string, fn validation.Func, opts ...ValidateOption) {
	if fn == nil {
		return
	}
	v.Register(name, func(value any, _ *Node, _ *Validator) validation.Result {
		return fn(value)
	}, opts...)
}

// Has reports whether a validation is registered under name.
func (v *Validator) Has(name string) bool {
	_, ok := v.rules[name]
	return ok
}

// Names returns registered validation names in registration order.
func (v *Validator) Names() []string {
	return append([]string(nil), v.order...)
}

// SetDefaults replaces the default validations with an explicit allow-list.
// Unknown names are reported and skipped.
func (v *Validator) SetDefaults(names ...string) {
	defaults := make([]string, 0, len(names))
	for _, name := range names {
		if !v.Has(name) {
			v.logger().Warn("default validation is not registered", "type", v.node.typ.name, "validation", name)
			continue
		}
		if contains(defaults, name) {
			continue
		}
		defaults = append(defaults, name)
	}
	v.defaults = defaults
}

// Defaults returns the default validation names in run order.
func (v *Validator) Defaults() []string {
	return append([]string(nil), v.defaults...)
}

// Invoke runs the validation registered under name through ValidateProperty.
// The bool reports whether the rule actually ran.
func (v *Validator) Invoke(name string) (validation.Result, bool, error) {
	rule, ok := v.rules[name]
	if !ok {
		return validation.Result{}, false, fmt.Errorf("%w: %q on %s", ErrUnknownValidation, name, v.node.typ.name)
	}
	var opts []ValidateOption
	if rule.skipCached {
		opts = append(opts, SkipCached())
	}
	result, ran := v.ValidateProperty(rule.property, func(value any) validation.Result {
		return rule.check(value, v.node, v)
	}, opts...)
	return result, ran, nil
}

// ValidateProperty feeds the current value of property to fn and merges the
// result into the error store. With SkipCached the run is skipped when the
// value is unchanged since the last validation of property. The cache only
// moves when fn actually ran, and records the value left after the run.
func (v *Validator) ValidateProperty(property string, fn validation.Func, opts ...ValidateOption) (validation.Result, bool) {
	cfg := resolveRuleConfig(opts)
	if cfg.skipCached && v.ValueIsSameAndValidated(property) {
		return validation.Result{}, false
	}
	result := fn(v.node.Get(property))
	v.HandleResult(property, result)
	v.cache[property] = v.node.Get(property)
	return result, true
}

// HandleResult merges a validation result into the error store of property:
// ignored results change nothing, valid results clear the property, an
// Errors slice replaces the stored messages and a single Error is added next
// to them. A failure without messages is reported and otherwise ignored.
func (v *Validator) HandleResult(property string, result validation.Result) {
	switch {
	case result.Ignore:
		return
	case result.Valid:
		v.RemoveErrors(property)
	case result.Replaces():
		messages := validation.Compact(result.Errors)
		if len(messages) == 0 {
			v.RemoveErrors(property)
			return
		}
		if v.node.errors == nil {
			v.node.errors = make(Errors)
		}
		v.node.errors[property] = messages
	case result.Error != "":
		v.AddError(property, result.Error)
	default:
		v.logger().Warn("validation returned valid=false without errors", "type", v.node.typ.name, "property", property)
	}
}

// AddError appends message to property unless it is already present.
func (v *Validator) AddError(property, message string) {
	if message == "" {
		return
	}
	n := v.node
	if n.errors == nil {
		n.errors = make(Errors)
	}
	if contains(n.errors[property], message) {
		return
	}
	n.errors[property] = append(n.errors[property], message)
}

// RemoveErrors drops every message of property, dropping the store once it
// is empty.
func (v *Validator) RemoveErrors(property string) {
	n := v.node
	if n.errors == nil {
		return
	}
	delete(n.errors, property)
	if len(n.errors) == 0 {
		n.errors = nil
	}
}

// RemoveSpecificError removes one message from property and keeps the rest.
func (v *Validator) RemoveSpecificError(property, message string) {
	n := v.node
	messages := n.errors[property]
	idx := indexOf(messages, message)
	if idx < 0 {
		return
	}
	remaining := make([]string, 0, len(messages)-1)
	remaining = append(remaining, messages[:idx]...)
	remaining = append(remaining, messages[idx+1:]...)
	if len(remaining) == 0 {
		v.RemoveErrors(property)
		return
	}
	n.errors[property] = remaining
}

// Selector picks validations for Validate.
type Selector func(v *Validator) error

// ByName selects the validation registered under name.
func ByName(name string) Selector {
	return func(v *Validator) error {
		_, _, err := v.Invoke(name)
		return err
	}
}

// Named selects several validations by name.
func Named(names ...string) []Selector {
	out := make([]Selector, 0, len(names))
	for _, name := range names {
		out = append(out, ByName(name))
	}
	return out
}

// Inline calls each callback with the current value of the property it is
// keyed by, in property name order.
func Inline(callbacks map[string]func(value any)) Selector {
	return func(v *Validator) error {
		properties := make([]string, 0, len(callbacks))
		for property := range callbacks {
			properties = append(properties, property)
		}
		sort.Strings(properties)
		for _, property := range properties {
			if fn := callbacks[property]; fn != nil {
				fn(v.node.Get(property))
			}
		}
		return nil
	}
}

// Validate runs the selected validations in order and stops at the first
// unknown name. Without selectors it runs ValidateDefault(true).
func (v *Validator) Validate(selectors ...Selector) error {
	if len(selectors) == 0 {
		return v.ValidateDefault(true)
	}
	for _, sel := range selectors {
		if sel == nil {
			continue
		}
		if err := sel(v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDefault runs every default validation and, when nested is set,
// the default validations of every related node.
func (v *Validator) ValidateDefault(nested bool) error {
	for _, name := range v.defaults {
		if _, _, err := v.Invoke(name); err != nil {
			return err
		}
	}
	if !nested {
		return nil
	}
	return v.ValidateRelated()
}

// ValidateRelated runs ValidateDefault(true) on every related node in
// property order, has-many children in list order.
func (v *Validator) ValidateRelated() error {
	var err error
	v.node.eachRelated(func(child *Node) bool {
		err = child.validator.ValidateDefault(true)
		return err == nil
	})
	return err
}

// IsValid reports false when the node or any related node carries errors.
func (v *Validator) IsValid() bool {
	if v.node.errors.Any() {
		return false
	}
	return v.node.eachRelated(func(child *Node) bool {
		return child.validator.IsValid()
	})
}

// IsPropertyValid reports whether property carries no errors.
func (v *Validator) IsPropertyValid(property string) bool {
	return len(v.node.errors[property]) == 0
}

// FirstErrorFor returns the first message of property, or "".
func (v *Validator) FirstErrorFor(property string) string {
	if messages := v.node.errors[property]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

// ErrorsFor returns a copy of the messages of property, or nil.
func (v *Validator) ErrorsFor(property string) []string {
	messages := v.node.errors[property]
	if len(messages) == 0 {
		return nil
	}
	return append([]string(nil), messages...)
}

// ResetErrors clears the node's errors and those of every related node.
func (v *Validator) ResetErrors() {
	v.node.errors = nil
	v.node.eachRelated(func(child *Node) bool {
		child.validator.ResetErrors()
		return true
	})
}

// PreviousValue returns the value property had at its last validation.
func (v *Validator) PreviousValue(property string) (any, bool) {
	value, ok := v.cache[property]
	return value, ok
}

// ValueIsSameAndValidated reports whether property was validated before and
// still holds the value it had then.
func (v *Validator) ValueIsSameAndValidated(property string) bool {
	previous, ok := v.cache[property]
	if !ok {
		return false
	}
	return equal.Same(previous, v.node.Get(property))
}

func (v *Validator) cloneFor(n *Node) *Validator {
	clone := newValidator(n)
	clone.order = append([]string(nil), v.order...)
	clone.defaults = append([]string(nil), v.defaults...)
	for name, rule := range v.rules {
		clone.rules[name] = rule
	}
	return clone
}

func contains(values []string, target string) bool {
	return indexOf(values, target) >= 0
}

func indexOf(values []string, target string) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}
