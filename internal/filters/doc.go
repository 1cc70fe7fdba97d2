// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects outcome rows by --filter expressions.
//
// Filters are key-operator-target expressions separated by a comma, or by
// A11YDIFF_FILTER_DELIM when targets contain commas.
//
// Operators include:
//
//   - = : exact match (numeric for numbers)
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - < : less than
//   - > : greater than
//   - @ : contains, or membership for arrays and objects
//   - / : regular expression match
//
// Each operator may be prefixed with ! to negate it. A key with no operator
// keeps rows where the key is present.
//
// Examples:
//
//   - "outcome=failed" : failed outcomes only
//   - "rule@sia-r8" : outcomes of rules whose URI contains sia-r8
//   - "target/img\[\d+\]$" : targets ending in an img element
//   - "mode!=automatic" : outcomes needing manual review
//
// Keys are matched against the OutputKey of the attrs in use and otherwise
// used as gjson paths into the row.
package filters
