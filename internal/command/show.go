// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/a11ydiff/internal/config"
	"github.com/tfctl/a11ydiff/internal/log"
	"github.com/tfctl/a11ydiff/internal/meta"
	"github.com/tfctl/a11ydiff/internal/output"
)

func showCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "show"

	if DumpSchemaIfRequested(cmd) {
		return nil
	}

	args := cmd.Args().Slice()
	if len(args) == 0 && cmd.String("in") != "" {
		args = []string{"latest"}
	}
	if len(args) != 1 {
		return fmt.Errorf("show requires one RESULT, got %d argument(s)", len(args))
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
	if cmd.Bool("summary") {
		output.Summary(w, specName(specs[0]), results[0])
		return nil
	}
	return output.SliceDiceSpit(w, results[0], docs[0], BuildAttrs(cmd), OutputOptions(cmd))
}

// showCommandBuilder constructs the cli.Command for "show".
func showCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "render the outcomes of one result",
		UsageText: "a11ydiff show [RESULT] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			newSchemaFlag(),
			newSummaryFlag(),
			NewInFlag("show", meta.Config.Source),
		}, NewGlobalFlags("show", meta.Config.Source)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: showCommandAction,
	}
}
