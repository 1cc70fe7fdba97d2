// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/a11ydiff/internal/config"
	"github.com/tfctl/a11ydiff/internal/differ"
	"github.com/tfctl/a11ydiff/internal/log"
	"github.com/tfctl/a11ydiff/internal/meta"
	"github.com/tfctl/a11ydiff/internal/output"
)

// baselineCommandAction summarises BASE and then reports what each NEXT adds,
// relative to BASE or, with --chain, to the result before it. Every diff is
// reported before the --fail-on gate is checked.
func baselineCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "baseline"

	if DumpSchemaIfRequested(cmd) {
		return nil
	}

	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("baseline requires BASE and at least one NEXT, got %d argument(s)", len(args))
	}

	loader := NewLoader()
	specs, err := ResolveSpecs(ctx, cmd, loader, args)
	if err != nil {
		return err
	}

	results, docs, err := LoadResults(ctx, loader, specs...)
	if err != nil {
		return err
	}

	w := writer(cmd)
	opts := OutputOptions(cmd)
	text := opts.Format == "text" || opts.Format == ""

	if text {
		output.Summary(w, specName(specs[0]), results[0])
	} else if err := emitDocument(w, opts.Format, func() error {
		return output.SliceDiceSpit(w, results[0], docs[0], BuildAttrs(cmd), opts)
	}); err != nil {
		return err
	}

	var gateErrs []error
	for i := 1; i < len(results); i++ {
		prev := 0
		if cmd.Bool("chain") {
			prev = i - 1
		}

		diff := differ.Diff(results[prev], results[i])
		title := fmt.Sprintf("%s vs %s", specName(specs[i]), specName(specs[prev]))
		log.Debugf("baseline diff: %s outcomes=%d", title, diff.OutcomeCount())

		switch {
		case text && !cmd.Bool("rows"):
			fmt.Fprintln(w)
			output.Summary(w, title, diff)
		case text:
			fmt.Fprintln(w)
			fmt.Fprintln(w, title)
			if err := output.SliceDiceSpit(w, diff, nil, BuildAttrs(cmd), opts); err != nil {
				return err
			}
		default:
			if err := emitDocument(w, opts.Format, func() error {
				return output.SliceDiceSpit(w, diff, nil, BuildAttrs(cmd), opts)
			}); err != nil {
				return err
			}
		}

		if err := checkFailOn(diff, cmd.String("fail-on")); err != nil {
			gateErrs = append(gateErrs, fmt.Errorf("%s: %w", title, err))
		}
	}

	return errors.Join(gateErrs...)
}

// emitDocument writes one document of a multi-document stream. YAML documents
// are separated by ---.
func emitDocument(w io.Writer, format string, emit func() error) error {
	if format == "yaml" {
		if _, err := fmt.Fprintln(w, "---"); err != nil {
			return err
		}
	}
	return emit()
}

// baselineCommandBuilder constructs the cli.Command for "baseline".
func baselineCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "baseline",
		Usage:     "summarise BASE and diff each NEXT against it",
		UsageText: "a11ydiff baseline BASE NEXT... [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			newSchemaFlag(),
			NewInFlag("baseline", meta.Config.Source),
			&cli.BoolFlag{
				Name:  "chain",
				Usage: "diff each NEXT against the result before it instead of BASE",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "rows",
				Usage: "list new outcome rows instead of per-rule aggregates",
				Value: false,
			},
			&cli.StringFlag{
				Name:    "fail-on",
				Usage:   "exit non-zero when any diff has new outcomes with these values",
				Sources: cli.EnvVars("A11YDIFF_FAIL_ON"),
				Validator: func(value string) error {
					return FlagValidators(value, FailOnValidator)
				},
			},
		}, NewGlobalFlags("baseline", meta.Config.Source)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: baselineCommandAction,
	}
}
