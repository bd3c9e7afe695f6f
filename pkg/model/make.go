package model

import (
	"sort"

	"github.com/goliatone/go-formstate/pkg/logging"
)

// Config describes a node built by Make.
type Config struct {
	// Type is optional; nodes without one share a dynamic type.
	Type *Type
	// Data seeds the node's properties.
	Data map[string]any
	// Tap returns overrides merged on top of Data. It receives a copy.
	Tap func(data map[string]any) map[string]any
	// Order lists properties that come first.
	Order []string
	// Rules are registered by name; each validates the property of the
	// same name.
	Rules map[string]Rule
	// Defaults is the allow-list of rules run by ValidateDefault. Nil means
	// every rule, in property order.
	Defaults []string
	// Logger receives developer warnings.
	Logger logging.Logger
}

// Make builds a node from data plus tap overrides and registers its rules.
func Make(cfg Config) *Node {
	data := make(map[string]any, len(cfg.Data))
	for key, value := range cfg.Data {
		data[key] = value
	}
	if cfg.Tap != nil {
		snapshot := make(map[string]any, len(data))
		for key, value := range data {
			snapshot[key] = value
		}
		for key, value := range cfg.Tap(snapshot) {
			data[key] = value
		}
	}

	n := New(cfg.Type, data, WithOrder(cfg.Order...), WithLogger(cfg.Logger))
	v := n.Validator()
	for _, name := range ruleOrder(n, cfg.Rules) {
		v.Register(name, cfg.Rules[name])
	}
	if cfg.Defaults == nil {
		v.SetDefaults(v.Names()...)
	} else {
		v.SetDefaults(cfg.Defaults...)
	}
	return n
}

// ruleOrder lists rule names following the node's property order, then any
// rule without a matching property sorted by name.
func ruleOrder(n *Node, rules map[string]Rule) []string {
	out := make([]string, 0, len(rules))
	for _, property := range n.keys {
		if _, ok := rules[property]; ok {
			out = append(out, property)
		}
	}
	rest := make([]string, 0, len(rules)-len(out))
	for name := range rules {
		if !n.Has(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
