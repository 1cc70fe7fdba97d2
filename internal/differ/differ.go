// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/tfctl/a11ydiff/internal/audit"
	"github.com/tfctl/a11ydiff/internal/log"
)

// Diff returns the outcomes of current that were not already observed in
// previous, in a result of the same shape.
//
// Rules are visited in current's order. A rule missing from previous is
// skipped entirely, even though all of its outcomes are technically new. An
// outcome is new when no outcome of the same rule in previous is Equal to it.
// Rules left with no new outcomes are omitted. alfaVersion, page and
// durations are carried over from current. Neither input is modified.
func Diff(previous, current *audit.Result) *audit.Result {
	outcomes := audit.NewOrderedMap[[]audit.Outcome]()

	if current != nil {
		var prevOutcomes *audit.OrderedMap[[]audit.Outcome]
		if previous != nil {
			prevOutcomes = previous.Outcomes
		}

		for rule, list := range current.Outcomes.All() {
			old, ok := prevOutcomes.Get(rule)
			if !ok {
				log.Tracef("rule not in previous result, skipping: rule=%s", rule)
				continue
			}

			if fresh := newOutcomes(list, old); len(fresh) > 0 {
				outcomes.Set(rule, fresh)
			}
		}
	}

	diff := &audit.Result{
		Outcomes:         outcomes,
		ResultAggregates: audit.Aggregates(outcomes),
	}
	if current != nil {
		diff.AlfaVersion = current.AlfaVersion
		diff.Page = current.Page
		diff.Durations = current.Durations
	}

	log.Debugf("diff computed: rules=%d outcomes=%d", outcomes.Len(), diff.OutcomeCount())
	return diff
}

// newOutcomes keeps the elements of current with no equal element in
// previous. The comparison is all-pairs.
func newOutcomes(current, previous []audit.Outcome) []audit.Outcome {
	var fresh []audit.Outcome
	for _, o := range current {
		if !containsEqual(previous, o) {
			fresh = append(fresh, o)
		}
	}
	return fresh
}

func containsEqual(list []audit.Outcome, o audit.Outcome) bool {
	for _, candidate := range list {
		if candidate.Equal(o) {
			return true
		}
	}
	return false
}
