// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"slices"
	"strings"
)

// sortField is one comma separated entry of a --sort spec. A leading '-'
// sorts descending and a leading '!' compares case sensitively.
type sortField struct {
	name          string
	descending    bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortField {
	var fields []sortField
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		var sf sortField
		if rest, ok := strings.CutPrefix(f, "-"); ok {
			sf.descending = true
			f = rest
		}
		if rest, ok := strings.CutPrefix(f, "!"); ok {
			sf.caseSensitive = true
			f = rest
		}
		if f == "" {
			continue
		}
		sf.name = f
		fields = append(fields, sf)
	}
	return fields
}

// SortDataset orders rows in place by spec. Numbers compare numerically and
// everything else as strings. Rows that compare equal keep their order.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	fields := parseSortSpec(spec)
	if len(fields) == 0 {
		return
	}

	slices.SortStableFunc(resultSet, func(one, two map[string]interface{}) int {
		for _, f := range fields {
			c := compareValues(one[f.name], two[f.name], f.caseSensitive)
			if c == 0 {
				continue
			}
			if f.descending {
				return -c
			}
			return c
		}
		return 0
	})
}

func compareValues(a, b interface{}, caseSensitive bool) int {
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}

	as := InterfaceToString(a)
	bs := InterfaceToString(b)
	if !caseSensitive {
		as = strings.ToLower(as)
		bs = strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}
