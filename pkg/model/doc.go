// Package model implements the data side of a form: nodes holding property
// values and their error store, the validator each node owns, and the
// recursive helpers that walk has-one and has-many relations.
//
// A Node keeps its properties in insertion order. Relations are declared on
// the node's Type (HasOne, HasMany) or picked up from the Go type of an
// assigned value (*Node, []*Node); every tree walk (IsValid, ResetErrors,
// ValidateDefault, ToObject, Clone) goes through the same declared-relation
// path.
//
// Error stores follow one invariant: a property never maps to an empty list,
// and a node without errors has a nil store.
//
// Nodes and validators are not safe for concurrent use. They are meant to be
// driven from the goroutine that handles UI events.
package model
