package model

// eachRelated visits every directly related node in property order, has-many
// children in list order. Nil children and empty lists are skipped. It stops
// and reports false as soon as fn does.
func (n *Node) eachRelated(fn func(child *Node) bool) bool {
	for _, property := range n.keys {
		switch n.relations[property] {
		case RelationHasOne:
			child := n.One(property)
			if child == nil {
				continue
			}
			if !fn(child) {
				return false
			}
		case RelationHasMany:
			for _, child := range n.Many(property) {
				if child == nil {
					continue
				}
				if !fn(child) {
					return false
				}
			}
		}
	}
	return true
}

// Related calls fn for every directly related node. Index is the position
// inside a has-many list, or -1 for has-one relations. Returning false stops
// the walk.
func (n *Node) Related(fn func(property string, index int, child *Node) bool) {
	for _, property := range n.keys {
		switch n.relations[property] {
		case RelationHasOne:
			if child := n.One(property); child != nil && !fn(property, -1, child) {
				return
			}
		case RelationHasMany:
			for idx, child := range n.Many(property) {
				if child != nil && !fn(property, idx, child) {
					return
				}
			}
		}
	}
}

// Clone copies the node and every related node. Each copy gets its own
// validator carrying the same rules and defaults; the value cache starts
// empty and unique keys are assigned afresh. Plain values are copied
// shallowly.
func (n *Node) Clone() *Node {
	clone := &Node{
		typ:       n.typ,
		keys:      append([]string(nil), n.keys...),
		values:    make(map[string]any, len(n.values)),
		relations: make(map[string]RelationKind, len(n.relations)),
		errors:    n.errors.Clone(),
		logger:    n.logger,
	}
	for property, kind := range n.relations {
		clone.relations[property] = kind
	}
	for property, value := range n.values {
		switch n.relations[property] {
		case RelationHasOne:
			if child := n.One(property); child != nil {
				clone.values[property] = child.Clone()
				continue
			}
		case RelationHasMany:
			if children := n.Many(property); children != nil {
				copies := make([]*Node, len(children))
				for idx, child := range children {
					if child != nil {
						copies[idx] = child.Clone()
					}
				}
				clone.values[property] = copies
				continue
			}
		}
		clone.values[property] = value
	}
	clone.validator = n.validator.cloneFor(clone)
	return clone
}

// ReplaceErrorsFrom copies the error stores of from onto n and its related
// nodes. Has-many lists are matched by index.
func (n *Node) ReplaceErrorsFrom(from *Node) {
	if n == nil || from == nil {
		return
	}
	n.errors = from.errors.Clone()
	for _, property := range from.keys {
		switch from.relations[property] {
		case RelationHasOne:
			n.One(property).ReplaceErrorsFrom(from.One(property))
		case RelationHasMany:
			targets, sources := n.Many(property), from.Many(property)
			for idx := 0; idx < len(targets) && idx < len(sources); idx++ {
				targets[idx].ReplaceErrorsFrom(sources[idx])
			}
		}
	}
}

// ApplyErrors merges error stores from a plain snapshot shaped like the
// output of ToObject with IncludeErrors: the ErrorsKey entry replaces the
// node's store and relation keys recurse into the matching children.
func (n *Node) ApplyErrors(snapshot map[string]any) {
	if n == nil || snapshot == nil {
		return
	}
	if raw, ok := snapshot[ErrorsKey]; ok {
		if errs, ok := errorsFromAny(raw); ok {
			n.errors = errs
		}
	}
	for property, raw := range snapshot {
		switch n.relations[property] {
		case RelationHasOne:
			if nested, ok := raw.(map[string]any); ok {
				n.One(property).ApplyErrors(nested)
			}
		case RelationHasMany:
			children := n.Many(property)
			for idx, item := range snapshotList(raw) {
				if idx >= len(children) {
					break
				}
				children[idx].ApplyErrors(item)
			}
		}
	}
}

func snapshotList(raw any) []map[string]any {
	switch typed := raw.(type) {
	case []map[string]any:
		return typed
	case []any:
		out := make([]map[string]any, len(typed))
		for idx, item := range typed {
			out[idx], _ = item.(map[string]any)
		}
		return out
	default:
		return nil
	}
}
