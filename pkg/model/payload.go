package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Resolve walks a dotted path (e.g. "addresses.1.city") through has-one and
// has-many relations and returns the node owning the final property.
// Bracket and JSON pointer forms ("addresses[1].city", "/addresses/1/city")
// are accepted too.
func (n *Node) Resolve(path string) (*Node, string, error) {
	segments := parsePathSegments(path)
	if len(segments) == 0 {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownProperty, path)
	}
	return n.resolveSegments(segments, path)
}

func (n *Node) resolveSegments(segments []string, path string) (*Node, string, error) {
	current := n
	for i := 0; i < len(segments); i++ {
		segment := segments[i]
		last := i == len(segments)-1
		if last {
			return current, segment, nil
		}
		switch current.relations[segment] {
		case RelationHasOne:
			child := current.One(segment)
			if child == nil {
				return nil, "", fmt.Errorf("%w: %q has no %s", ErrUnknownProperty, path, segment)
			}
			current = child
		case RelationHasMany:
			idx, err := strconv.Atoi(segments[i+1])
			children := current.Many(segment)
			if err != nil || idx < 0 || idx >= len(children) || children[idx] == nil {
				return nil, "", fmt.Errorf("%w: %q has no %s[%s]", ErrUnknownProperty, path, segment, segments[i+1])
			}
			current = children[idx]
			i++
			if i == len(segments)-1 {
				return nil, "", fmt.Errorf("%w: %q ends on a list item", ErrUnknownProperty, path)
			}
		default:
			return nil, "", fmt.Errorf("%w: %q, %s is not a relation", ErrUnknownProperty, path, segment)
		}
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownProperty, path)
}

// ApplyErrorPayload attaches a flat error payload keyed by field paths (as
// returned by a server) to the node tree. Wrapper prefixes such as "body" or
// "data" are ignored. Messages whose path is form level or does not resolve
// are returned, trimmed and de-duplicated.
func (n *Node) ApplyErrorPayload(payload map[string][]string) []string {
	var formLevel []string
	for _, rawPath := range sortedPaths(payload) {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		if isFormLevelKey(rawPath) {
			formLevel = append(formLevel, messages...)
			continue
		}
		target, property, ok := n.resolvePayloadPath(rawPath)
		if !ok {
			formLevel = append(formLevel, messages...)
			continue
		}
		for _, message := range messages {
			target.validator.AddError(property, message)
		}
	}
	return normalizeMessages(formLevel)
}

func (n *Node) resolvePayloadPath(rawPath string) (*Node, string, bool) {
	segments := parsePathSegments(rawPath)
	for _, variant := range [][]string{segments, dropWrapperSegments(segments)} {
		if len(variant) == 0 {
			continue
		}
		target, property, err := n.resolveSegments(variant, rawPath)
		if err != nil {
			continue
		}
		if target.Has(property) || target.validator.Has(property) {
			return target, property, true
		}
	}
	return nil, "", false
}

func sortedPaths(payload map[string][]string) []string {
	out := make([]string, 0, len(payload))
	for path := range payload {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	if path == "" {
		return nil
	}

	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimLeft(clean, "#/.$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 1 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
