// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"embed"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/a11ydiff/internal/audit"
)

//go:embed testdata/*.json
var testDataFS embed.FS

const (
	r1   audit.Rule = "https://alfa.siteimprove.com/rules/sia-r1"
	r2   audit.Rule = "https://alfa.siteimprove.com/rules/sia-r2"
	r8   audit.Rule = "https://alfa.siteimprove.com/rules/sia-r8"
	r69  audit.Rule = "https://alfa.siteimprove.com/rules/sia-r69"
	r111 audit.Rule = "https://alfa.siteimprove.com/rules/sia-r111"
)

func load(t *testing.T, name string) (*audit.Result, []byte) {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/" + name)
	require.NoError(t, err)
	r, err := audit.Decode(data)
	require.NoError(t, err)
	return r, data
}

func outcome(rule audit.Rule, v audit.Value, target string) audit.Outcome {
	return audit.Outcome{
		Rule:   rule,
		Value:  v,
		Target: json.RawMessage(`"` + target + `"`),
		Mode:   "automatic",
	}
}

// entry pairs a rule with its outcomes for building results in order.
type entry struct {
	id       audit.Rule
	outcomes []audit.Outcome
}

func result(version string, entries ...entry) *audit.Result {
	m := audit.NewOrderedMap[[]audit.Outcome]()
	for _, e := range entries {
		m.Set(e.id, e.outcomes)
	}
	return &audit.Result{
		AlfaVersion:      version,
		Page:             audit.NewPage("http://localhost:8080/", "SPA"),
		Outcomes:         m,
		ResultAggregates: audit.Aggregates(m),
		Durations:        json.RawMessage(`{"common":{"total":` + version + `}}`),
	}
}

func TestDiff_Fixtures(t *testing.T) {
	prev, _ := load(t, "screen1.json")
	cur, _ := load(t, "screen2.json")

	d := Diff(prev, cur)

	assert.Equal(t, []audit.Rule{r8, r69}, d.Outcomes.Rules(), "sia-r111 is absent from the previous screen")

	got8, _ := d.Outcomes.Get(r8)
	require.Len(t, got8, 1, "reordered petName outcome is not new")
	assert.Equal(t, "/html/body/main/form/input[@id='favMovie']", got8[0].TargetString())

	got69, _ := d.Outcomes.Get(r69)
	require.Len(t, got69, 1)
	assert.Equal(t, audit.Passed, got69[0].Value)
	assert.Equal(t, "/html/body/main/label/text()", got69[0].TargetString())

	agg8, _ := d.ResultAggregates.Get(r8)
	assert.Equal(t, audit.Aggregate{Failed: 1}, agg8)
	agg69, _ := d.ResultAggregates.Get(r69)
	assert.Equal(t, audit.Aggregate{Passed: 1}, agg69)

	assert.Equal(t, cur.AlfaVersion, d.AlfaVersion)
	assert.Equal(t, cur.Page, d.Page)
	assert.JSONEq(t, string(cur.Durations), string(d.Durations))
}

func TestDiff_Scenarios(t *testing.T) {
	a := outcome(r1, audit.Failed, "/html/body/img[1]")
	b := outcome(r1, audit.Failed, "/html/body/img[2]")
	c := outcome(r2, audit.Passed, "/html/body/p")

	tests := []struct {
		name      string
		previous  *audit.Result
		current   *audit.Result
		wantRules []audit.Rule
		wantAggs  map[audit.Rule]audit.Aggregate
	}{
		{
			name:      "new failure on existing rule",
			previous:  result("1", entry{r1, []audit.Outcome{a}}),
			current:   result("2", entry{r1, []audit.Outcome{a, b}}),
			wantRules: []audit.Rule{r1},
			wantAggs:  map[audit.Rule]audit.Aggregate{r1: {Failed: 1}},
		},
		{
			name:      "rule absent from previous is skipped",
			previous:  result("1", entry{r1, []audit.Outcome{a}}),
			current:   result("2", entry{r1, []audit.Outcome{a}}, entry{r2, []audit.Outcome{c}}),
			wantRules: []audit.Rule{},
			wantAggs:  map[audit.Rule]audit.Aggregate{},
		},
		{
			name:      "identical results",
			previous:  result("1", entry{r1, []audit.Outcome{a, b}}),
			current:   result("1", entry{r1, []audit.Outcome{a, b}}),
			wantRules: []audit.Rule{},
			wantAggs:  map[audit.Rule]audit.Aggregate{},
		},
		{
			name:      "outcomes resolved since previous are not reported",
			previous:  result("1", entry{r1, []audit.Outcome{a, b}}),
			current:   result("2", entry{r1, []audit.Outcome{a}}),
			wantRules: []audit.Rule{},
			wantAggs:  map[audit.Rule]audit.Aggregate{},
		},
		{
			name:      "empty previous skips everything",
			previous:  result("1"),
			current:   result("2", entry{r1, []audit.Outcome{a}}),
			wantRules: []audit.Rule{},
			wantAggs:  map[audit.Rule]audit.Aggregate{},
		},
		{
			name:      "empty current",
			previous:  result("1", entry{r1, []audit.Outcome{a}}),
			current:   result("2"),
			wantRules: []audit.Rule{},
			wantAggs:  map[audit.Rule]audit.Aggregate{},
		},
		{
			name:     "value change on the same target is new",
			previous: result("1", entry{r1, []audit.Outcome{a}}),
			current: result("2", entry{r1, []audit.Outcome{
				outcome(r1, audit.CantTell, "/html/body/img[1]"),
			}}),
			wantRules: []audit.Rule{r1},
			wantAggs:  map[audit.Rule]audit.Aggregate{r1: {CantTell: 1}},
		},
		{
			name:     "output keeps current rule order",
			previous: result("1", entry{r2, nil}, entry{r1, nil}),
			current: result("2",
				entry{r1, []audit.Outcome{a}},
				entry{r2, []audit.Outcome{c}},
			),
			wantRules: []audit.Rule{r1, r2},
			wantAggs: map[audit.Rule]audit.Aggregate{
				r1: {Failed: 1},
				r2: {Passed: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Diff(tt.previous, tt.current)

			require.NotNil(t, d)
			assert.Equal(t, tt.wantRules, orNone(d.Outcomes.Rules()))
			assert.Equal(t, tt.wantRules, orNone(d.ResultAggregates.Rules()))
			for rule, want := range tt.wantAggs {
				got, ok := d.ResultAggregates.Get(rule)
				require.True(t, ok, rule)
				assert.Equal(t, want, got, rule)
			}
			assert.Equal(t, tt.current.AlfaVersion, d.AlfaVersion)
			assert.Equal(t, tt.current.Page, d.Page)
			assert.Equal(t, tt.current.Durations, d.Durations)
		})
	}
}

func orNone(rules []audit.Rule) []audit.Rule {
	if rules == nil {
		return []audit.Rule{}
	}
	return rules
}

func TestDiff_Properties(t *testing.T) {
	prev, _ := load(t, "screen1.json")
	cur, _ := load(t, "screen2.json")

	t.Run("idempotent on self", func(t *testing.T) {
		for _, r := range []*audit.Result{prev, cur} {
			d := Diff(r, r)
			assert.Zero(t, d.Outcomes.Len())
			assert.Zero(t, d.ResultAggregates.Len())
		}
	})

	t.Run("subset of current", func(t *testing.T) {
		d := Diff(prev, cur)
		for rule, list := range d.Outcomes.All() {
			curList, ok := cur.Outcomes.Get(rule)
			require.True(t, ok)
			_, inPrev := prev.Outcomes.Get(rule)
			assert.True(t, inPrev, "only rules present in previous")
			assert.NotEmpty(t, list)
			for _, o := range list {
				assert.True(t, containsEqual(curList, o))
			}
		}
	})

	t.Run("aggregates sum to outcome counts", func(t *testing.T) {
		d := Diff(prev, cur)
		for rule, list := range d.Outcomes.All() {
			agg, ok := d.ResultAggregates.Get(rule)
			require.True(t, ok)
			assert.Equal(t, len(list), agg.Total())
		}
		assert.Equal(t, d.Outcomes.Len(), d.ResultAggregates.Len())
	})

	t.Run("reverse direction", func(t *testing.T) {
		d := Diff(cur, prev)
		assert.Zero(t, d.OutcomeCount(), "screen1 has nothing screen2 lacks")
	})
}

func TestDiff_NilInputs(t *testing.T) {
	cur := result("2", entry{r1, []audit.Outcome{outcome(r1, audit.Failed, "x")}})

	d := Diff(nil, cur)
	assert.Zero(t, d.Outcomes.Len())
	assert.Equal(t, "2", d.AlfaVersion)

	d = Diff(cur, nil)
	assert.Zero(t, d.Outcomes.Len())
	assert.Empty(t, d.AlfaVersion)

	d = Diff(nil, nil)
	require.NotNil(t, d)
	assert.Zero(t, d.OutcomeCount())
}

func TestDiff_DoesNotMutateInputs(t *testing.T) {
	prev, prevRaw := load(t, "screen1.json")
	cur, curRaw := load(t, "screen2.json")

	prevCopy, err := audit.Decode(prevRaw)
	require.NoError(t, err)
	curCopy, err := audit.Decode(curRaw)
	require.NoError(t, err)

	_ = Diff(prev, cur)

	assert.Equal(t, prevCopy, prev)
	assert.Equal(t, curCopy, cur)
}

func TestDiff_Concurrent(t *testing.T) {
	prev, _ := load(t, "screen1.json")
	cur, _ := load(t, "screen2.json")
	want := Diff(prev, cur)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Diff(prev, cur))
		}()
	}
	wg.Wait()
}

func TestDiff_JSONShape(t *testing.T) {
	prev, _ := load(t, "screen1.json")
	cur, _ := load(t, "screen2.json")

	out, err := json.Marshal(Diff(prev, cur))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Contains(t, doc, "alfaVersion")
	assert.Contains(t, doc, "page")
	assert.Contains(t, doc, "outcomes")
	assert.Contains(t, doc, "resultAggregates")
	assert.Contains(t, doc, "durations")
	assert.JSONEq(t, `{
		"https://alfa.siteimprove.com/rules/sia-r8": {"failed": 1, "passed": 0, "cantTell": 0},
		"https://alfa.siteimprove.com/rules/sia-r69": {"failed": 0, "passed": 1, "cantTell": 0}
	}`, string(doc["resultAggregates"]))
}
