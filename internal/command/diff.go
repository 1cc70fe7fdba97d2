// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/a11ydiff/internal/audit"
	"github.com/tfctl/a11ydiff/internal/config"
	"github.com/tfctl/a11ydiff/internal/differ"
	"github.com/tfctl/a11ydiff/internal/log"
	"github.com/tfctl/a11ydiff/internal/meta"
	"github.com/tfctl/a11ydiff/internal/output"
	"github.com/tfctl/a11ydiff/internal/source"
)

// ErrNewOutcomes is returned when a diff contains new outcomes with a value
// named by --fail-on.
var ErrNewOutcomes = errors.New("new outcomes found")

func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "diff"

	if DumpSchemaIfRequested(cmd) {
		return nil
	}

	loader := NewLoader()

	specs, err := diffSpecs(ctx, cmd, loader)
	if err != nil {
		return err
	}
	if specs == nil {
		log.Debug("snapshot selection cancelled")
		return nil
	}

	w := writer(cmd)

	if cmd.Bool("document") || cmd.Bool("patch") {
		docs, err := loader.LoadAll(ctx, specs...)
		if err != nil {
			return err
		}
		opts := differ.DocumentOptions{
			Ignore: cmd.StringSlice("ignore"),
			Color:  cmd.Bool("color") && isTerminal(os.Stdout),
		}
		if cmd.Bool("patch") {
			patch, err := differ.DocumentPatch(docs[0], docs[1], opts)
			if err != nil {
				return err
			}
			fmt.Fprint(w, patch)
			return nil
		}
		return differ.DocumentDiff(w, docs[0], docs[1], opts)
	}

	results, _, err := LoadResults(ctx, loader, specs...)
	if err != nil {
		return err
	}

	diff := differ.Diff(results[0], results[1])
	log.Debugf("diff computed: rules=%d outcomes=%d", diff.Outcomes.Len(), diff.OutcomeCount())

	if cmd.Bool("summary") {
		output.Summary(w, fmt.Sprintf("%s vs %s", specName(specs[1]), specName(specs[0])), diff)
	} else if err := output.SliceDiceSpit(w, diff, nil, BuildAttrs(cmd), OutputOptions(cmd)); err != nil {
		return err
	}

	return checkFailOn(diff, cmd.String("fail-on"))
}

// diffSpecs returns the previous and current specs, in that order. They come
// from the interactive picker with --pick, otherwise from the arguments,
// defaulting to ~1 ~0 when --in is set. A nil result means the picker was
// cancelled.
func diffSpecs(ctx context.Context, cmd *cli.Command, loader *source.Loader) ([]string, error) {
	if location := cmd.String("pick"); location != "" {
		if !isTerminal(os.Stdin) {
			return nil, fmt.Errorf("--pick needs an interactive terminal")
		}
		snaps, err := loader.List(ctx, location)
		if err != nil {
			return nil, err
		}
		if len(snaps) < 2 {
			return nil, fmt.Errorf("%w: need two snapshots in %s, found %d", source.ErrSnapshotNotFound, location, len(snaps))
		}
		picked := differ.SelectSnapshots(snaps)
		if picked == nil {
			return nil, nil
		}
		return []string{picked[0].Spec, picked[1].Spec}, nil
	}

	args := cmd.Args().Slice()
	if len(args) == 0 && cmd.String("in") != "" {
		args = []string{"~1", "~0"}
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("diff requires PREVIOUS and CURRENT, got %d argument(s)", len(args))
	}

	return ResolveSpecs(ctx, cmd, loader, args)
}

// checkFailOn returns ErrNewOutcomes when diff holds outcomes whose value is
// listed in spec.
func checkFailOn(diff *audit.Result, spec string) error {
	values, err := parseFailOn(spec)
	if err != nil || len(values) == 0 {
		return err
	}

	totals := diff.Totals()
	var tripped []string
	for _, v := range values {
		if n := totals.Count(v); n > 0 {
			tripped = append(tripped, fmt.Sprintf("%d %s", n, v))
		}
	}
	if len(tripped) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNewOutcomes, strings.Join(tripped, ", "))
}

// diffCommandBuilder constructs the cli.Command for "diff".
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "show outcomes new in CURRENT since PREVIOUS",
		UsageText: "a11ydiff diff [PREVIOUS CURRENT] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			newSchemaFlag(),
			newSummaryFlag(),
			NewInFlag("diff", meta.Config.Source),
			&cli.StringFlag{
				Name:    "fail-on",
				Usage:   "exit non-zero when new outcomes have these values (failed,cantTell,passed,any)",
				Sources: cli.EnvVars("A11YDIFF_FAIL_ON"),
				Validator: func(value string) error {
					return FlagValidators(value, FailOnValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "document",
				Usage: "show a structural diff of the two documents",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "patch",
				Usage: "show the documents' difference as a JSON patch",
				Value: false,
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "top-level document keys left out of --document and --patch",
				Value: []string{"durations"},
			},
			&cli.StringFlag{
				Name:  "pick",
				Usage: "choose the two snapshots interactively from a directory or s3://prefix",
			},
		}, NewGlobalFlags("diff", meta.Config.Source)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("document") && c.Bool("patch") {
				return ctx, fmt.Errorf("--document and --patch are mutually exclusive")
			}
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: diffCommandAction,
	}
}
