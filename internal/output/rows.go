// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/tfctl/a11ydiff/internal/attrs"
	"github.com/tfctl/a11ydiff/internal/audit"
	"github.com/tfctl/a11ydiff/internal/filters"
	"github.com/tfctl/a11ydiff/internal/log"
)

// Row is one outcome flattened for filtering, sorting and tabular output.
// Its json tags are the keys available to --attrs, --filter and --sort.
type Row struct {
	Rule         audit.Rule      `json:"rule"`
	Index        int             `json:"index"`
	Outcome      audit.Value     `json:"outcome"`
	Target       string          `json:"target"`
	Mode         string          `json:"mode,omitempty"`
	Expectations json.RawMessage `json:"expectations,omitempty"`
}

func newRow(rule audit.Rule, index int, o audit.Outcome) Row {
	return Row{
		Rule:         rule,
		Index:        index,
		Outcome:      o.Value,
		Target:       o.TargetString(),
		Mode:         o.Mode,
		Expectations: o.Expectations,
	}
}

// Rows flattens the outcomes of r in rule order. Index is the outcome's
// position within its rule.
func Rows(r *audit.Result) []Row {
	rows := []Row{}
	if r == nil {
		return rows
	}
	for rule, outcomes := range r.Outcomes.All() {
		for i, o := range outcomes {
			rows = append(rows, newRow(rule, i, o))
		}
	}
	return rows
}

// rowsDataset encodes rows as a gjson array for the filters package.
func rowsDataset(rows []Row) gjson.Result {
	raw, err := json.Marshal(rows)
	if err != nil {
		log.Errorf("rows marshal: %v", err)
		return gjson.Parse("[]")
	}
	return gjson.ParseBytes(raw)
}

// FilterResult keeps the outcomes of r whose rows match spec. Rules left
// empty are dropped and aggregates recomputed, so the result keeps the
// invariants of a diff. With an empty spec r is returned unchanged.
func FilterResult(r *audit.Result, al attrs.AttrList, spec string) *audit.Result {
	fs := filters.BuildFilters(spec)
	if r == nil || len(fs) == 0 {
		return r
	}

	outcomes := audit.NewOrderedMap[[]audit.Outcome]()
	for rule, list := range r.Outcomes.All() {
		var kept []audit.Outcome
		for i, o := range list {
			raw, err := json.Marshal(newRow(rule, i, o))
			if err != nil {
				log.Errorf("row marshal: %v", err)
				continue
			}
			if filters.Matches(gjson.ParseBytes(raw), al, fs) {
				kept = append(kept, o)
			}
		}
		if len(kept) > 0 {
			outcomes.Set(rule, kept)
		}
	}

	log.Debugf("result filtered: spec=%s outcomes=%d", spec, outcomes.Len())
	return &audit.Result{
		AlfaVersion:      r.AlfaVersion,
		Page:             r.Page,
		Outcomes:         outcomes,
		ResultAggregates: audit.Aggregates(outcomes),
		Durations:        r.Durations,
	}
}
