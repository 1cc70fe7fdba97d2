// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/a11ydiff/internal/config"
	"github.com/tfctl/a11ydiff/internal/log"
	"github.com/tfctl/a11ydiff/internal/meta"
	"github.com/tfctl/a11ydiff/internal/output"
	"github.com/tfctl/a11ydiff/internal/source"
)

func listCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "list"

	location := cmd.String("in")
	if args := cmd.Args().Slice(); len(args) > 0 {
		location = args[0]
	}
	if location == "" {
		location = m.StartingDir
	}
	if location == "" {
		location = "."
	}

	snaps, err := NewLoader().List(ctx, location)
	if err != nil {
		return err
	}

	if limit := cmd.Int("limit"); limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}

	return writeSnapshots(writer(cmd), snaps, cmd.String("output"), cmd.Bool("titles"))
}

// writeSnapshots renders a newest first listing. The text form numbers each
// row with the ~N spec that selects it.
func writeSnapshots(w io.Writer, snaps []source.Snapshot, format string, titles bool) error {
	switch format {
	case "json", "raw":
		out, err := json.MarshalIndent(snaps, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal snapshots: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err

	case "yaml":
		out, err := yaml.Marshal(snaps)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshots: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	rows := make([][]string, 0, len(snaps))
	for i, s := range snaps {
		rows = append(rows, []string{
			"~" + strconv.Itoa(i),
			s.Name,
			humanize.Bytes(uint64(max(s.Size, 0))),
			humanize.Time(s.Modified),
		})
	}

	t := output.NewTable(output.Options{Titles: titles, Padding: 2}, rows,
		[]string{"SPEC", "NAME", "SIZE", "MODIFIED"})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// listCommandBuilder constructs the cli.Command for "list".
func listCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list stored results, newest first",
		UsageText: "a11ydiff list [LOCATION] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewInFlag("list", meta.Config.Source),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "limit the number of snapshots listed",
				Value: 0,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format",
				Value:   "text",
				Validator: func(value string) error {
					return FlagValidators(value, OutputValidator)
				},
			},
			&cli.BoolFlag{
				Name:    "titles",
				Aliases: []string{"t"},
				Usage:   "show titles with text output",
				Value:   false,
			},
		},
		Action: listCommandAction,
	}
}
