// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/tfctl/a11ydiff/internal/audit"
)

// valueColors maps each classification to the color used when its count is
// non-zero.
var valueColors = map[audit.Value]*color.Color{
	audit.Failed:   color.New(color.FgRed, color.Bold),
	audit.Passed:   color.New(color.FgGreen),
	audit.CantTell: color.New(color.FgYellow),
}

// Summary writes a short human report of r: the page, one line per rule
// with its aggregate and a totals line. title labels the report, for
// example "screen2 vs screen1". If w is nil, os.Stdout is used. Colors follow
// fatih/color, which disables them when stdout is not a terminal or NO_COLOR
// is set.
func Summary(w io.Writer, title string, r *audit.Result) {
	if w == nil {
		w = os.Stdout
	}
	if r == nil {
		r = &audit.Result{}
	}

	bold := color.New(color.Bold)
	if title != "" {
		bold.Fprintln(w, title)
	}

	page := r.Page.URL
	if r.Page.Title != "" {
		page = fmt.Sprintf("%s (%s)", r.Page.Title, r.Page.URL)
	}
	if page != "" || r.AlfaVersion != "" {
		fmt.Fprintf(w, "page: %s  alfa: %s\n", page, r.AlfaVersion)
	}

	if r.ResultAggregates.Len() == 0 {
		fmt.Fprintln(w, "no new outcomes")
		return
	}

	width := 0
	for _, rule := range r.ResultAggregates.Rules() {
		width = max(width, len(rule))
	}

	for rule, agg := range r.ResultAggregates.All() {
		fmt.Fprintf(w, "  %-*s  %s\n", width, rule, counts(agg))
	}
	fmt.Fprintf(w, "  %-*s  %s\n", width, "total", counts(r.Totals()))
}

func counts(agg audit.Aggregate) string {
	parts := make([]string, 0, len(audit.Values))
	for _, v := range audit.Values {
		n := agg.Count(v)
		s := fmt.Sprintf("%s %d", v, n)
		if n > 0 {
			s = valueColors[v].Sprint(s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "  ")
}
