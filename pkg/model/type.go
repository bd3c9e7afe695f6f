package model

import (
	"sync/atomic"
)

// RelationKind tells how a property references other nodes.
type RelationKind int

const (
	// RelationNone marks a plain value property.
	RelationNone RelationKind = iota
	// RelationHasOne marks a property holding a single *Node.
	RelationHasOne
	// RelationHasMany marks a property holding an ordered []*Node.
	RelationHasMany
)

func (k RelationKind) String() string {
	switch k {
	case RelationHasOne:
		return "hasOne"
	case RelationHasMany:
		return "hasMany"
	default:
		return "none"
	}
}

// Relation declares a relation property on a Type.
type Relation struct {
	Property string
	Kind     RelationKind
}

// HasOne declares property as a single nested node.
func HasOne(property string) Relation {
	return Relation{Property: property, Kind: RelationHasOne}
}

// HasMany declares property as an ordered list of nested nodes.
func HasMany(property string) Relation {
	return Relation{Property: property, Kind: RelationHasMany}
}

// Type names a family of nodes. It carries the declared relations and the
// counter used to hand out unique keys. Counters are process-wide, start at
// zero, only grow and are never reset.
type Type struct {
	name      string
	relations []Relation
	keys      atomic.Int64
}

// NewType declares a node type.
func NewType(name string, relations ...Relation) *Type {
	t := &Type{name: name}
	seen := make(map[string]int, len(relations))
	for _, rel := range relations {
		if rel.Property == "" || rel.Property == ErrorsKey || rel.Kind == RelationNone {
			continue
		}
		if idx, ok := seen[rel.Property]; ok {
			t.relations[idx] = rel
			continue
		}
		seen[rel.Property] = len(t.relations)
		t.relations = append(t.relations, rel)
	}
	return t
}

// dynamicType backs nodes built without an explicit type.
var dynamicType = NewType("node")

// Name returns the type name.
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Relations returns the declared relations in declaration order.
func (t *Type) Relations() []Relation {
	if t == nil {
		return nil
	}
	return append([]Relation(nil), t.relations...)
}

// Relation returns the declared kind of property.
func (t *Type) Relation(property string) RelationKind {
	if t == nil {
		return RelationNone
	}
	for _, rel := range t.relations {
		if rel.Property == property {
			return rel.Kind
		}
	}
	return RelationNone
}

func (t *Type) nextKey() int64 {
	return t.keys.Add(1)
}
