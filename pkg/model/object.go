package model

import "sort"

// ObjectOptions controls ToObject.
type ObjectOptions struct {
	// IncludeErrors adds the error store under ErrorsKey, recursively.
	IncludeErrors bool
	// Include limits the output to these properties when non-nil.
	Include []string
	// Exclude drops these properties.
	Exclude []string
	// Tap replaces the value of a property with the function's return value.
	// Tapped properties skip default serialisation; a nil return omits them.
	Tap map[string]func(value any) any
}

// ToObject returns a plain snapshot of the node. Related nodes are
// serialised recursively with the same IncludeErrors setting; Include,
// Exclude and Tap only apply at the top level.
func (n *Node) ToObject(opts ObjectOptions) map[string]any {
	result := make(map[string]any, len(n.keys)+1)

	skip := make(map[string]struct{}, len(opts.Exclude)+len(opts.Tap))
	for _, property := range opts.Exclude {
		skip[property] = struct{}{}
	}
	for property := range opts.Tap {
		skip[property] = struct{}{}
	}

	properties := n.keys
	if opts.Include != nil {
		properties = opts.Include
	}

	includeErrors := opts.IncludeErrors
	if opts.Include != nil && !contains(opts.Include, ErrorsKey) {
		includeErrors = false
	}
	if _, excluded := skip[ErrorsKey]; excluded {
		includeErrors = false
	}
	if includeErrors && n.errors.Any() {
		result[ErrorsKey] = map[string][]string(n.errors.Clone())
	}

	if len(opts.Tap) > 0 {
		tapped := make([]string, 0, len(opts.Tap))
		for property := range opts.Tap {
			tapped = append(tapped, property)
		}
		sort.Strings(tapped)
		for _, property := range tapped {
			fn := opts.Tap[property]
			if fn == nil {
				continue
			}
			if value := fn(n.values[property]); value != nil {
				result[property] = value
			}
		}
	}

	nested := ObjectOptions{IncludeErrors: opts.IncludeErrors}
	for _, property := range properties {
		if property == ErrorsKey {
			continue
		}
		if _, skipped := skip[property]; skipped {
			continue
		}
		value, ok := n.values[property]
		if !ok {
			continue
		}
		switch n.relations[property] {
		case RelationHasOne:
			if child := n.One(property); child != nil {
				result[property] = child.ToObject(nested)
			} else {
				result[property] = nil
			}
			continue
		case RelationHasMany:
			children := n.Many(property)
			if children == nil {
				result[property] = nil
				continue
			}
			items := make([]any, len(children))
			for idx, child := range children {
				if child != nil {
					items[idx] = child.ToObject(nested)
				}
			}
			result[property] = items
			continue
		}
		result[property] = value
	}
	return result
}
