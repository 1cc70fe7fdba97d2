// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tfctl/a11ydiff/internal/cacheutil"
	"github.com/tfctl/a11ydiff/internal/command"
	"github.com/tfctl/a11ydiff/internal/config"
	"github.com/tfctl/a11ydiff/internal/log"
	"github.com/tfctl/a11ydiff/internal/version"
)

var ctx = context.Background()

// boolFlags never take a value, so the token after them is left alone when
// duplicate flags are collapsed.
var boolFlags = []string{
	"c", "chain", "color", "document", "h", "help", "l", "local", "patch",
	"rows", "schema", "summary", "t", "titles", "v", "version",
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	switch {
	case len(args) > 1 && args[1] == "completion":
		// Short-circuit completion: pass args directly.
		return args
	default:
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)
		return deduplicateFlags(args)
	}
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v gate=%v", err, errors.Is(err, command.ErrNewOutcomes))
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	if !slices.Contains(args, "--help") && !slices.Contains(args, "-h") {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands an @set argument into the <command>.<set> list from
// the config file, at the position it was given. Without an explicit @set the
// <command>.defaults list, if any, is injected right after the command.
func processSetOnly(args []string) []string {
	if len(args) < 2 {
		return args
	}

	set := "defaults"
	insertIdx := 2
	for i := 2; i < len(args); i++ {
		if strings.HasPrefix(args[i], "@") && len(args[i]) > 1 {
			set = args[i][1:]
			insertIdx = i
			args = slices.Delete(slices.Clone(args), i, i+1)
			break
		}
	}

	entries, err := config.GetStringSlice(args[1] + "." + set)
	if err != nil {
		log.Debugf("no config set: key=%s.%s err=%v", args[1], set, err)
		return args
	}
	return injectConfigSet(args, entries, insertIdx)
}

// injectConfigSet splits each entry on whitespace and inserts the fields into
// args at insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	insertIdx = min(insertIdx, len(args))
	return slices.Insert(slices.Clone(args), insertIdx, expanded...)
}

// deduplicateFlags keeps only the last occurrence of each flag after the
// command, so flags given on the command line override injected sets. A flag
// written without = takes the following token as its value unless that token
// is itself a flag or the flag is a known boolean. Positional arguments are
// never dropped.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type group struct {
		key    string
		tokens []string
	}

	var groups []group
	for i := 2; i < len(args); i++ {
		token := args[i]
		if token == "-" || !strings.HasPrefix(token, "-") {
			groups = append(groups, group{tokens: []string{token}})
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(token, "-"), "=")
		g := group{key: name, tokens: []string{token}}
		if !hasValue && !slices.Contains(boolFlags, name) &&
			i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			g.tokens = append(g.tokens, args[i+1])
			i++
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.key != "" {
			last[g.key] = i
		}
	}

	result := slices.Clone(args[:2])
	for i, g := range groups {
		if g.key == "" || last[g.key] == i {
			result = append(result, g.tokens...)
		}
	}
	return result
}
