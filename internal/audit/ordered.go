// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"bytes"
	"encoding/json"
	"iter"

	"gopkg.in/yaml.v2"
)

// OrderedMap maps rules to values and remembers insertion order. Iteration,
// JSON and YAML encoding all follow that order. Read methods are safe on a
// nil map.
type OrderedMap[V any] struct {
	rules  []Rule
	values map[Rule]V
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: map[Rule]V{}}
}

// Set stores v under rule. A rule already present keeps its position.
func (m *OrderedMap[V]) Set(rule Rule, v V) {
	if m.values == nil {
		m.values = map[Rule]V{}
	}
	if _, ok := m.values[rule]; !ok {
		m.rules = append(m.rules, rule)
	}
	m.values[rule] = v
}

// Get returns the value stored under rule.
func (m *OrderedMap[V]) Get(rule Rule) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[rule]
	return v, ok
}

// Len returns the number of rules.
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Rules returns a copy of the rules in insertion order.
func (m *OrderedMap[V]) Rules() []Rule {
	if m == nil {
		return nil
	}
	return append([]Rule(nil), m.rules...)
}

// All iterates rule/value pairs in insertion order.
func (m *OrderedMap[V]) All() iter.Seq2[Rule, V] {
	return func(yield func(Rule, V) bool) {
		if m == nil {
			return
		}
		for _, rule := range m.rules {
			if !yield(rule, m.values[rule]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rule := range m.Rules() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(rule))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[rule])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as an ordered YAML mapping.
func (m *OrderedMap[V]) MarshalYAML() (interface{}, error) {
	out := yaml.MapSlice{}
	for rule, v := range m.All() {
		out = append(out, yaml.MapItem{Key: string(rule), Value: v})
	}
	return out, nil
}
