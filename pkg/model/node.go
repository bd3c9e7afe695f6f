package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goliatone/go-formstate/pkg/logging"
)

// Node is the mutable data container behind a form. It owns its error store
// and exactly one Validator whose back reference always points at it.
type Node struct {
	typ       *Type
	keys      []string
	values    map[string]any
	relations map[string]RelationKind
	errors    Errors
	validator *Validator
	key       int64
	logger    logging.Logger
}

// Option configures a node at construction.
type Option func(*config)

type config struct {
	order  []string
	logger logging.Logger
}

// WithOrder lists properties that come first, in the given order. Remaining
// properties follow sorted by name.
func WithOrder(keys ...string) Option {
	return func(cfg *config) {
		cfg.order = append(cfg.order, keys...)
	}
}

// WithLogger sets the logger used for developer warnings.
func WithLogger(logger logging.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// New builds a node of type t seeded with data. A nil type falls back to a
// shared dynamic type. Values of type *Node and []*Node become relations. An
// ErrorsKey entry seeds the error store.
func New(t *Type, data map[string]any, options ...Option) *Node {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if t == nil {
		t = dynamicType
	}

	n := &Node{
		typ:       t,
		values:    make(map[string]any, len(data)),
		relations: make(map[string]RelationKind, len(t.relations)),
		logger:    logging.OrDefault(cfg.logger),
	}
	for _, rel := range t.relations {
		n.relations[rel.Property] = rel.Kind
	}
	n.validator = newValidator(n)

	for _, property := range orderedKeys(data, cfg.order) {
		value := data[property]
		if property == ErrorsKey {
			if errs, ok := errorsFromAny(value); ok {
				n.errors = errs
			}
			continue
		}
		if err := n.Set(property, value); err != nil {
			n.logger.Warn("dropping initial value", "type", t.name, "property", property, "err", err)
		}
	}
	return n
}

// Type returns the node type.
func (n *Node) Type() *Type {
	return n.typ
}

// Validator returns the validator owned by the node.
func (n *Node) Validator() *Validator {
	return n.validator
}

// Keys returns the property names in order.
func (n *Node) Keys() []string {
	return append([]string(nil), n.keys...)
}

// Has reports whether property has been assigned.
func (n *Node) Has(property string) bool {
	_, ok := n.values[property]
	return ok
}

// Get returns the value of property, or nil when unset.
func (n *Node) Get(property string) any {
	return n.values[property]
}

// Lookup returns the value of property and whether it is set.
func (n *Node) Lookup(property string) (any, bool) {
	value, ok := n.values[property]
	return value, ok
}

// Text returns the value of property formatted as text. Nil reads as "".
func (n *Node) Text(property string) string {
	switch v := n.values[property].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Set assigns value to property. Relation properties only accept *Node (has
// one) or []*Node (has many); the first assignment of such a value to an
// undeclared property declares the relation.
func (n *Node) Set(property string, value any) error {
	if property == ErrorsKey {
		return fmt.Errorf("%w: %q", ErrReservedProperty, property)
	}
	if property == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownProperty)
	}

	switch n.relations[property] {
	case RelationHasOne:
		if _, ok := value.(*Node); !ok && value != nil {
			return fmt.Errorf("%w: %s.%s expects *Node, got %T", ErrRelationShape, n.typ.name, property, value)
		}
	case RelationHasMany:
		if _, ok := value.([]*Node); !ok && value != nil {
			return fmt.Errorf("%w: %s.%s expects []*Node, got %T", ErrRelationShape, n.typ.name, property, value)
		}
	default:
		switch value.(type) {
		case *Node:
			n.relations[property] = RelationHasOne
		case []*Node:
			n.relations[property] = RelationHasMany
		}
	}

	if _, exists := n.values[property]; !exists {
		n.keys = append(n.keys, property)
	}
	n.values[property] = value
	return nil
}

// MustSet is Set for wiring code where a shape mismatch is a programmer
// error.
func (n *Node) MustSet(property string, value any) {
	if err := n.Set(property, value); err != nil {
		panic(err)
	}
}

// Relation returns the relation kind of property on this node.
func (n *Node) Relation(property string) RelationKind {
	return n.relations[property]
}

// One returns the has-one child stored at property.
func (n *Node) One(property string) *Node {
	child, _ := n.values[property].(*Node)
	return child
}

// Many returns the has-many children stored at property.
func (n *Node) Many(property string) []*Node {
	children, _ := n.values[property].([]*Node)
	return children
}

// Append adds child to the has-many relation at property, declaring the
// relation when the property is unset.
func (n *Node) Append(property string, child *Node) error {
	if child == nil {
		return nil
	}
	kind := n.relations[property]
	if kind != RelationHasMany && (kind != RelationNone || n.Has(property)) {
		return fmt.Errorf("%w: %s.%s is not a has-many relation", ErrRelationShape, n.typ.name, property)
	}
	return n.Set(property, append(n.Many(property), child))
}

// Errors returns the node's error store. The map is live; nil means the node
// has no errors.
func (n *Node) Errors() Errors {
	return n.errors
}

// SetErrors replaces the error store, normalising empty entries away.
func (n *Node) SetErrors(errs Errors) {
	n.errors = errs.Clone()
}

// UniqueKey returns a key unique among nodes of the same type, assigned on
// first call. It is meant for list rendering, not identity.
func (n *Node) UniqueKey() int64 {
	if n.key == 0 {
		n.key = n.typ.nextKey()
	}
	return n.key
}

// MarshalJSON serialises the node through ToObject with default options.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToObject(ObjectOptions{}))
}

func orderedKeys(data map[string]any, order []string) []string {
	out := make([]string, 0, len(data))
	seen := make(map[string]struct{}, len(data))
	for _, key := range order {
		if _, ok := data[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	rest := make([]string, 0, len(data)-len(out))
	for key := range data {
		if _, ok := seen[key]; ok {
			continue
		}
		rest = append(rest, key)
	}
	sort.Strings(rest)
	return append(out, rest...)
}
