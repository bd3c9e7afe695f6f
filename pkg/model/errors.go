package model

import (
	"errors"
	"sort"
)

// ErrorsKey is the reserved property name under which error stores are
// serialised.
const ErrorsKey = "errors"

var (
	// ErrUnknownValidation is returned when a named validation is not
	// registered on the validator.
	ErrUnknownValidation = errors.New("model: validation is not defined")
	// ErrReservedProperty is returned when assigning to ErrorsKey.
	ErrReservedProperty = errors.New("model: property name is reserved")
	// ErrRelationShape is returned when a relation property receives a value
	// of the wrong shape.
	ErrRelationShape = errors.New("model: value does not match relation")
	// ErrUnknownProperty is returned when a path does not resolve to a
	// property on the node tree.
	ErrUnknownProperty = errors.New("model: unknown property")
)

// Errors maps property names to their error messages.
type Errors map[string][]string

// Clone returns a normalised deep copy: empty lists are dropped and an empty
// result is nil.
func (e Errors) Clone() Errors {
	if len(e) == 0 {
		return nil
	}
	out := make(Errors, len(e))
	for property, messages := range e {
		if len(messages) == 0 {
			continue
		}
		out[property] = append([]string(nil), messages...)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Properties returns the properties that carry errors, sorted.
func (e Errors) Properties() []string {
	out := make([]string, 0, len(e))
	for property, messages := range e {
		if len(messages) > 0 {
			out = append(out, property)
		}
	}
	sort.Strings(out)
	return out
}

// Any reports whether at least one property carries a message.
func (e Errors) Any() bool {
	for _, messages := range e {
		if len(messages) > 0 {
			return true
		}
	}
	return false
}

func errorsFromAny(raw any) (Errors, bool) {
	switch typed := raw.(type) {
	case nil:
		return nil, true
	case Errors:
		return typed.Clone(), true
	case map[string][]string:
		return Errors(typed).Clone(), true
	case map[string]any:
		out := make(Errors, len(typed))
		for property, value := range typed {
			switch messages := value.(type) {
			case []string:
				out[property] = append([]string(nil), messages...)
			case []any:
				for _, message := range messages {
					if s, ok := message.(string); ok {
						out[property] = append(out[property], s)
					}
				}
			case string:
				out[property] = []string{messages}
			}
		}
		return out.Clone(), true
	default:
		return nil, false
	}
}
