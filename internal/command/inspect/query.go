// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/tfctl/a11ydiff/internal/audit"
)

// Document is a result loaded for inspection: the raw JSON for gjson queries
// and its decoded form for the rule shortcuts.
type Document struct {
	Raw    []byte
	Result *audit.Result
}

// NewDocument decodes raw and keeps both forms.
func NewDocument(raw []byte) (*Document, error) {
	r, err := audit.Decode(raw)
	if err != nil {
		return nil, err
	}
	return &Document{Raw: raw, Result: r}, nil
}

// ProcessQuery routes a query to its handler and writes the answer to w.
//
//	rules            - every rule with its aggregate
//	rule SUFFIX      - the outcomes of the first rule whose id ends with SUFFIX
//	value VALUE      - every outcome classified VALUE
//	.PATH            - PATH against the document, as indented JSON
//	PATH             - PATH, scalars plain and arrays one per line
//
// PATH is a gjson path, or a Drill path when it holds [ or ~.
func ProcessQuery(w io.Writer, doc *Document, query string) {
	query = strings.TrimSpace(query)
	verb, arg, _ := strings.Cut(query, " ")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "rules":
		listRules(w, doc.Result)
		return
	case "rule":
		showRule(w, doc.Result, arg)
		return
	case "value":
		showValue(w, doc.Result, arg)
		return
	}

	jsonMode := strings.HasPrefix(query, ".")
	if jsonMode {
		query = strings.TrimPrefix(query, ".")
	}
	if query == "" {
		printJSON(w, doc.Raw)
		return
	}

	var res gjson.Result
	if strings.ContainsAny(query, "[~") {
		res = Drill(gjson.ParseBytes(doc.Raw), query)
	} else {
		res = gjson.GetBytes(doc.Raw, query)
	}
	if !res.Exists() {
		return
	}

	if jsonMode {
		printJSON(w, []byte(res.Raw))
		return
	}

	if res.IsArray() {
		for _, item := range res.Array() {
			fmt.Fprintln(w, plain(item))
		}
		return
	}
	fmt.Fprintln(w, plain(res))
}

func listRules(w io.Writer, r *audit.Result) {
	for rule, agg := range r.ResultAggregates.All() {
		fmt.Fprintf(w, "%s  failed=%d passed=%d cantTell=%d\n", rule, agg.Failed, agg.Passed, agg.CantTell)
	}
}

func showRule(w io.Writer, r *audit.Result, suffix string) {
	if suffix == "" {
		fmt.Fprintln(w, "Error: rule needs an id or id suffix")
		return
	}
	for rule, outcomes := range r.Outcomes.All() {
		if !strings.HasSuffix(string(rule), suffix) {
			continue
		}
		fmt.Fprintln(w, rule)
		for _, o := range outcomes {
			fmt.Fprintf(w, "  %-8s %s\n", o.Value, o.TargetString())
		}
		return
	}
}

func showValue(w io.Writer, r *audit.Result, name string) {
	v, ok := audit.ParseValue(name)
	if !ok {
		fmt.Fprintf(w, "Error: unknown outcome value %q\n", name)
		return
	}
	for rule, outcomes := range r.Outcomes.All() {
		for _, o := range outcomes {
			if o.Value == v {
				fmt.Fprintf(w, "%s  %s\n", rule, o.TargetString())
			}
		}
	}
}

// plain renders strings without quotes and anything else as compact JSON.
func plain(res gjson.Result) string {
	if res.Type == gjson.String {
		return res.Str
	}
	return string(pretty.Ugly([]byte(res.Raw)))
}

func printJSON(w io.Writer, raw []byte) {
	fmt.Fprint(w, string(pretty.Pretty(raw)))
}
