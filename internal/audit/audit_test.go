// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package audit

import (
	"embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"
)

//go:embed testdata/*.json
var testDataFS embed.FS

func mustDecode(t *testing.T, name string) *Result {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/" + name)
	require.NoError(t, err)
	r, err := Decode(data)
	require.NoError(t, err)
	return r
}

func TestDecode_ObjectForm(t *testing.T) {
	r := mustDecode(t, "screen1.json")

	assert.Equal(t, "0.98.0", r.AlfaVersion)
	assert.Equal(t, "http://localhost:8080/", r.Page.URL)
	assert.Equal(t, "Code Checker Example: SPA", r.Page.Title)
	assert.Equal(t, []Rule{
		"https://alfa.siteimprove.com/rules/sia-r1",
		"https://alfa.siteimprove.com/rules/sia-r8",
		"https://alfa.siteimprove.com/rules/sia-r69",
	}, r.Outcomes.Rules())

	r69, ok := r.Outcomes.Get("https://alfa.siteimprove.com/rules/sia-r69")
	require.True(t, ok)
	require.Len(t, r69, 1, "inapplicable outcome is dropped")
	assert.Equal(t, CantTell, r69[0].Value)
	assert.Equal(t, Rule("https://alfa.siteimprove.com/rules/sia-r69"), r69[0].Rule)

	assert.Equal(t, 3, r.OutcomeCount())
	assert.Equal(t, Aggregate{Failed: 1, Passed: 1, CantTell: 1}, r.Totals())
	assert.Equal(t, int64(412), gjson.GetBytes(r.Durations, "common.total").Int())
}

func TestDecode_NativePairs(t *testing.T) {
	r := mustDecode(t, "native.json")

	assert.Equal(t, []Rule{
		"https://alfa.siteimprove.com/rules/sia-r2",
		"https://alfa.siteimprove.com/rules/sia-r1",
	}, r.Outcomes.Rules())

	agg, ok := r.ResultAggregates.Get("https://alfa.siteimprove.com/rules/sia-r2")
	require.True(t, ok)
	assert.Equal(t, Aggregate{Failed: 1, Passed: 1}, agg)
	assert.Nil(t, r.Durations)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"not json", `{"outcomes":`, ErrMalformedResult},
		{"not an object", `[1,2]`, ErrMalformedResult},
		{"missing outcomes", `{"alfaVersion":"1"}`, ErrMalformedResult},
		{"outcomes scalar", `{"outcomes":3}`, ErrMalformedResult},
		{"rule outcomes not a list", `{"outcomes":{"r":{}}}`, ErrMalformedResult},
		{"pair without rule", `{"outcomes":[[1,[]]]}`, ErrMalformedResult},
		{"unknown outcome", `{"outcomes":{"r":[{"outcome":"maybe"}]}}`, ErrUnknownOutcome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_EmptyOutcomes(t *testing.T) {
	r, err := Decode([]byte(`{"alfaVersion":"1","outcomes":{}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Outcomes.Len())
	assert.Equal(t, 0, r.ResultAggregates.Len())
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in     string
		want   Value
		wantOK bool
	}{
		{"passed", Passed, true},
		{"FAILED", Failed, true},
		{"cantTell", CantTell, true},
		{"cant-tell", CantTell, true},
		{"cant_tell", CantTell, true},
		{"inapplicable", Inapplicable, true},
		{"nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseValue(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutcomeEqual(t *testing.T) {
	base := Outcome{
		Rule:         "r1",
		Value:        Failed,
		Target:       json.RawMessage(`{"path":"/html/body","name":"body"}`),
		Expectations: json.RawMessage(`{"1":{"holds":false}}`),
		Mode:         "automatic",
	}

	tests := []struct {
		name  string
		other func(Outcome) Outcome
		want  bool
	}{
		{"identical", func(o Outcome) Outcome { return o }, true},
		{"key order and whitespace", func(o Outcome) Outcome {
			o.Target = json.RawMessage(`{ "name": "body", "path": "/html/body" }`)
			return o
		}, true},
		{"different value", func(o Outcome) Outcome { o.Value = Passed; return o }, false},
		{"different rule", func(o Outcome) Outcome { o.Rule = "r2"; return o }, false},
		{"different mode", func(o Outcome) Outcome { o.Mode = "manual"; return o }, false},
		{"different target", func(o Outcome) Outcome {
			o.Target = json.RawMessage(`{"path":"/html/head","name":"head"}`)
			return o
		}, false},
		{"missing expectations", func(o Outcome) Outcome { o.Expectations = nil; return o }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := tt.other(base)
			assert.Equal(t, tt.want, base.Equal(other))
			assert.Equal(t, tt.want, other.Equal(base), "symmetric")
		})
	}
}

func TestOutcomeTargetString(t *testing.T) {
	assert.Equal(t, "/html/body", Outcome{Target: json.RawMessage(`"/html/body"`)}.TargetString())
	assert.Equal(t, `{"a":1}`, Outcome{Target: json.RawMessage(`{ "a": 1 }`)}.TargetString())
	assert.Equal(t, "", Outcome{}.TargetString())
}

func TestOrderedMap(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []Rule{"b", "a"}, m.Rules())
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	var seen []Rule
	for rule := range m.All() {
		seen = append(seen, rule)
		break
	}
	assert.Equal(t, []Rule{"b"}, seen, "iteration stops when asked")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"b":3,"a":2}`, string(data))

	y, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "b: 3\na: 2\n", string(y))
}

func TestOrderedMap_Nil(t *testing.T) {
	var m *OrderedMap[int]
	assert.Equal(t, 0, m.Len())
	_, ok := m.Get("x")
	assert.False(t, ok)
	assert.Nil(t, m.Rules())
	for range m.All() {
		t.Fatal("nil map yields nothing")
	}
}

func TestAggregates(t *testing.T) {
	outcomes := NewOrderedMap[[]Outcome]()
	outcomes.Set("r1", []Outcome{{Value: Failed}, {Value: Failed}, {Value: CantTell}})
	outcomes.Set("r2", []Outcome{})

	aggs := Aggregates(outcomes)

	assert.Equal(t, []Rule{"r1", "r2"}, aggs.Rules())
	r1, _ := aggs.Get("r1")
	assert.Equal(t, Aggregate{Failed: 2, CantTell: 1}, r1)
	assert.Equal(t, 3, r1.Total())
	assert.Equal(t, 2, r1.Count(Failed))
	assert.Equal(t, 0, r1.Count(Inapplicable))
	r2, _ := aggs.Get("r2")
	assert.Equal(t, Aggregate{}, r2)
}

func TestResultEncoding_RoundTrip(t *testing.T) {
	r := mustDecode(t, "screen1.json")

	data, err := json.Marshal(r)
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.Equal(t, "0.98.0", doc.Get("alfaVersion").String())
	assert.Equal(t, "screen", doc.Get("page.device.type").String(), "page pass-through fields survive")
	assert.Equal(t, int64(1), doc.Get(`resultAggregates.https://alfa\.siteimprove\.com/rules/sia-r8.failed`).Int())

	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, r.Outcomes.Rules(), again.Outcomes.Rules())
	assert.Equal(t, r.Totals(), again.Totals())
}

func TestResultEncoding_YAML(t *testing.T) {
	r := mustDecode(t, "native.json")

	data, err := yaml.Marshal(r)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "alfaVersion: 0.98.0")
	assert.Contains(t, out, "/html/body/img[1]")
	assert.NotContains(t, out, "durations")
}

func TestPage_Built(t *testing.T) {
	data, err := json.Marshal(NewPage("http://x", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"http://x"}`, string(data))
}
