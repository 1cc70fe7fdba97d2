// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

// Aggregate counts a rule's outcomes per classification.
type Aggregate struct {
	Failed   int `json:"failed" yaml:"failed"`
	Passed   int `json:"passed" yaml:"passed"`
	CantTell int `json:"cantTell" yaml:"cantTell"`
}

// Total is the number of outcomes counted.
func (a Aggregate) Total() int {
	return a.Failed + a.Passed + a.CantTell
}

// Count returns the counter for v, 0 for values that are not counted.
func (a Aggregate) Count(v Value) int {
	switch v {
	case Failed:
		return a.Failed
	case Passed:
		return a.Passed
	case CantTell:
		return a.CantTell
	}
	return 0
}

func (a *Aggregate) add(v Value) {
	switch v {
	case Failed:
		a.Failed++
	case Passed:
		a.Passed++
	case CantTell:
		a.CantTell++
	}
}

// Aggregates groups each rule's outcomes by classification. The result has
// the same rules, in the same order, as outcomes.
func Aggregates(outcomes *OrderedMap[[]Outcome]) *OrderedMap[Aggregate] {
	aggregates := NewOrderedMap[Aggregate]()
	for rule, list := range outcomes.All() {
		var agg Aggregate
		for _, o := range list {
			agg.add(o.Value)
		}
		aggregates.Set(rule, agg)
	}
	return aggregates
}
