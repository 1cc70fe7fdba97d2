// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"
)

// Page references the audited page. Fields other than url and title are not
// modelled but survive a decode/encode round trip.
type Page struct {
	URL   string
	Title string

	raw json.RawMessage
}

// NewPage builds a Page without any pass-through fields.
func NewPage(url, title string) Page {
	return Page{URL: url, Title: title}
}

// MarshalJSON emits the page as it was decoded, or url/title for pages built
// in code.
func (p Page) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(struct {
		URL   string `json:"url"`
		Title string `json:"title,omitempty"`
	}{p.URL, p.Title})
}

// MarshalYAML mirrors MarshalJSON.
func (p Page) MarshalYAML() (interface{}, error) {
	raw, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return gjson.ParseBytes(raw).Value(), nil
}

// Result is one audit run, or the diff of two runs, which has the same shape.
// Outcomes and ResultAggregates share rule order.
type Result struct {
	AlfaVersion      string                 `json:"alfaVersion"`
	Page             Page                   `json:"page"`
	Outcomes         *OrderedMap[[]Outcome] `json:"outcomes"`
	ResultAggregates *OrderedMap[Aggregate] `json:"resultAggregates"`
	Durations        json.RawMessage        `json:"durations,omitempty"`
}

// OutcomeCount returns the number of outcomes across all rules.
func (r *Result) OutcomeCount() int {
	n := 0
	for _, outcomes := range r.Outcomes.All() {
		n += len(outcomes)
	}
	return n
}

// Totals sums the aggregates of every rule.
func (r *Result) Totals() Aggregate {
	var total Aggregate
	for _, agg := range r.ResultAggregates.All() {
		total.Failed += agg.Failed
		total.Passed += agg.Passed
		total.CantTell += agg.CantTell
	}
	return total
}

// MarshalYAML emits the same keys as the JSON encoding, in the same order.
func (r *Result) MarshalYAML() (interface{}, error) {
	out := yaml.MapSlice{
		{Key: "alfaVersion", Value: r.AlfaVersion},
		{Key: "page", Value: r.Page},
		{Key: "outcomes", Value: orEmpty(r.Outcomes)},
		{Key: "resultAggregates", Value: orEmpty(r.ResultAggregates)},
	}
	if len(r.Durations) > 0 {
		out = append(out, yaml.MapItem{Key: "durations", Value: gjson.ParseBytes(r.Durations).Value()})
	}
	return out, nil
}

func orEmpty[V any](m *OrderedMap[V]) *OrderedMap[V] {
	if m == nil {
		return NewOrderedMap[V]()
	}
	return m
}
