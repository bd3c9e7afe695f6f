package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	case OutputFormatYAML:
		return yaml.Marshal(values)
	default:
		return jsonBytes(values)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			flatten(joinPath(prefix, key), v[key], out)
		}
	case map[string][]string:
		for _, key := range sortedKeys(v) {
			for _, msg := range v[key] {
				out.Add(joinPath(prefix, key)+"[]", msg)
			}
		}
	case []any:
		for idx, val := range v {
			if _, nested := val.(map[string]any); nested {
				flatten(fmt.Sprintf("%s[%d]", prefix, idx), val, out)
				continue
			}
			out.Add(prefix+"[]", textOf(val))
		}
	case []string:
		for _, val := range v {
			out.Add(prefix+"[]", val)
		}
	default:
		out.Set(prefix, textOf(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			writePretty(b, joinPath(prefix, key), v[key])
		}
	case map[string][]string:
		for _, key := range sortedKeys(v) {
			writePretty(b, joinPath(prefix, key), v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	case []string:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%s\n", prefix, textOf(v))
		}
	}
}

func jsonBytes(values map[string]any) ([]byte, error) {
	return json.Marshal(values)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
