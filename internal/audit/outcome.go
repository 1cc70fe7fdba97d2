// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v2"
)

// Rule identifies an accessibility check, usually by its URI. Only equality
// is meaningful.
type Rule string

// Value is the classification of a single outcome.
type Value string

const (
	Passed   Value = "passed"
	Failed   Value = "failed"
	CantTell Value = "cantTell"

	// Inapplicable outcomes are recognised on decode and dropped.
	Inapplicable Value = "inapplicable"
)

// Values lists the classifications counted by an Aggregate.
var Values = []Value{Failed, Passed, CantTell}

// ParseValue maps the serialized classification onto a Value. Matching is
// case-insensitive and tolerates "cant-tell" and "cant_tell".
func ParseValue(s string) (Value, bool) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch norm {
	case "passed":
		return Passed, true
	case "failed":
		return Failed, true
	case "canttell":
		return CantTell, true
	case "inapplicable":
		return Inapplicable, true
	}
	return "", false
}

// Outcome is the verdict of one rule against one test target. Target and
// Expectations are kept as the engine serialized them.
type Outcome struct {
	Rule         Rule            `json:"rule"`
	Value        Value           `json:"outcome"`
	Target       json.RawMessage `json:"target,omitempty"`
	Expectations json.RawMessage `json:"expectations,omitempty"`
	Mode         string          `json:"mode,omitempty"`
}

// Equal reports whether two outcomes are the same verdict on the same target.
// Target and expectations are compared structurally, ignoring key order and
// whitespace.
func (o Outcome) Equal(other Outcome) bool {
	if o.Rule != other.Rule || o.Value != other.Value || o.Mode != other.Mode {
		return false
	}
	return canonical(o.Target) == canonical(other.Target) &&
		canonical(o.Expectations) == canonical(other.Expectations)
}

// TargetString renders the target for display. String targets (XPath, CSS
// selectors) are unquoted; anything else is compact JSON.
func (o Outcome) TargetString() string {
	if len(o.Target) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(o.Target, &s); err == nil {
		return s
	}
	return string(pretty.Ugly(o.Target))
}

// MarshalYAML keeps the field names of the JSON encoding and expands the raw
// target and expectations into YAML structures.
func (o Outcome) MarshalYAML() (interface{}, error) {
	out := yaml.MapSlice{
		{Key: "rule", Value: string(o.Rule)},
		{Key: "outcome", Value: string(o.Value)},
	}
	if len(o.Target) > 0 {
		out = append(out, yaml.MapItem{Key: "target", Value: gjson.ParseBytes(o.Target).Value()})
	}
	if len(o.Expectations) > 0 {
		out = append(out, yaml.MapItem{Key: "expectations", Value: gjson.ParseBytes(o.Expectations).Value()})
	}
	if o.Mode != "" {
		out = append(out, yaml.MapItem{Key: "mode", Value: o.Mode})
	}
	return out, nil
}

// canonical returns compact JSON with object keys sorted at every level.
func canonical(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	opts := *pretty.DefaultOptions
	opts.SortKeys = true
	return string(pretty.Ugly(pretty.PrettyOptions(raw, &opts)))
}
