// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/a11ydiff/internal/attrs"
	"github.com/tfctl/a11ydiff/internal/audit"
	"github.com/tfctl/a11ydiff/internal/config"
	"github.com/tfctl/a11ydiff/internal/filters"
	"github.com/tfctl/a11ydiff/internal/log"
)

// Options controls how a result is rendered. Commands build it from their
// flags.
type Options struct {
	// Format is one of text, json, yaml or raw.
	Format string
	Filter string
	Sort   string
	Color  bool
	Titles bool
	// Padding is the space between table columns.
	Padding int
	// Local converts RFC3339 values to local time.
	Local bool
	// Aggregates adds the per-rule aggregate table to text output.
	Aggregates bool
	Header     string
	Footer     string
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		// Row values are counts and indexes, never fractional.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// SliceDiceSpit filters, transforms, sorts and renders r to w. raw is the
// document r was decoded from, written as is for the raw format; when nil, r
// is encoded instead. For json and yaml the filtered result document is
// written. For text the outcome rows are shaped by al and tabulated.
func SliceDiceSpit(w io.Writer, r *audit.Result, raw []byte, al attrs.AttrList, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	switch opts.Format {
	case "raw":
		if raw == nil {
			var err error
			if raw, err = json.Marshal(r); err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
		}
		_, err := w.Write(raw)
		return err

	case "json":
		out, err := json.MarshalIndent(FilterResult(r, al, opts.Filter), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err

	case "yaml":
		out, err := yaml.Marshal(FilterResult(r, al, opts.Filter))
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		_, err = w.Write(out)
		return err

	case "", "text":
		dataset := filters.FilterDataset(rowsDataset(Rows(r)), al, opts.Filter)

		if opts.Local {
			al = slices.Clone(al)
			for a := range al {
				al[a].TransformSpec += "t"
			}
		}

		for _, row := range dataset {
			for _, attr := range al {
				if attr.TransformSpec != "" {
					row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
				}
			}
		}

		SortDataset(dataset, opts.Sort)
		TableWriter(w, dataset, al, opts)

		if opts.Aggregates {
			AggregateWriter(w, FilterResult(r, al, opts.Filter), opts)
		}
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

// tableStyles builds header, even and odd row styles for opts.
func tableStyles(opts Options) (header, even, odd lipgloss.Style) {
	header = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
	even, odd = cell, cell

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")
		header = header.Foreground(headerColor)
		even = even.Foreground(evenColor)
		odd = odd.Foreground(oddColor)
	}
	return header, even, odd
}

// NewTable builds the borderless table used by the text renderers.
func NewTable(opts Options, rows [][]string, headers []string) *table.Table {
	headerStyle, evenRowStyle, oddRowStyle := tableStyles(opts)
	pad := opts.Padding

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	return t
}

// TableWriter renders outcome rows as a table honoring color, titles and
// padding. If w is nil, os.Stdout is used.
func TableWriter(w io.Writer, resultSet []map[string]interface{}, al attrs.AttrList, opts Options) {
	if w == nil {
		w = os.Stdout
	}

	headerStyle, _, _ := tableStyles(opts)
	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	if len(resultSet) > 0 {
		var rows [][]string
		for _, result := range resultSet {
			row := make([]string, 0, len(result))
			for _, attr := range al {
				if !attr.Include {
					continue
				}
				row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
			}
			rows = append(rows, row)
		}

		var headers []string
		for _, attr := range al {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		fmt.Fprintln(w, NewTable(opts, rows, headers))
	}

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// AggregateWriter renders the per-rule aggregates of r as a table followed by
// a totals row. Nothing is written when r has no rules.
func AggregateWriter(w io.Writer, r *audit.Result, opts Options) {
	if w == nil {
		w = os.Stdout
	}
	if r == nil || r.ResultAggregates.Len() == 0 {
		return
	}

	short := attrs.Attr{TransformSpec: "b"}
	rows := make([][]string, 0, r.ResultAggregates.Len()+1)
	for rule, agg := range r.ResultAggregates.All() {
		rows = append(rows, aggregateRow(InterfaceToString(short.Transform(string(rule))), agg))
	}
	rows = append(rows, aggregateRow("total", r.Totals()))

	headers := []string{"rule"}
	for _, v := range audit.Values {
		headers = append(headers, string(v))
	}

	fmt.Fprintln(w, NewTable(opts, rows, headers))
}

func aggregateRow(label string, agg audit.Aggregate) []string {
	row := []string{label}
	for _, v := range audit.Values {
		row = append(row, strconv.Itoa(agg.Count(v)))
	}
	return row
}

// getColors returns configured color values for table rendering. Defaults
// depend on the terminal background so output stays readable on light and
// dark themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil && colorCfg != "" {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	log.Tracef("colors resolved: dark=%v", isDark)
	return
}
