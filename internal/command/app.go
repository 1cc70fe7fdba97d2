// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/a11ydiff/internal/config"
	"github.com/tfctl/a11ydiff/internal/log"
	"github.com/tfctl/a11ydiff/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the a11ydiff
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is not an error, every key has a default.
	cfg, err := config.Load(ns)
	if err != nil {
		log.Debugf("config not loaded: err=%v", err)
		config.Config.Namespace = ns
	}

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "a11ydiff",
		Usage: "Accessibility audit result differ",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "a11ydiff version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		baselineCommandBuilder(meta),
		diffCommandBuilder(meta),
		inspectCommandBuilder(meta),
		listCommandBuilder(meta),
		showCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
