// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tfctl/a11ydiff/internal/attrs"
	"github.com/tfctl/a11ydiff/internal/audit"
	"github.com/tfctl/a11ydiff/internal/aws"
	"github.com/tfctl/a11ydiff/internal/cacheutil"
	"github.com/tfctl/a11ydiff/internal/config"
	"github.com/tfctl/a11ydiff/internal/log"
	"github.com/tfctl/a11ydiff/internal/meta"
	"github.com/tfctl/a11ydiff/internal/output"
	"github.com/tfctl/a11ydiff/internal/source"
)

// BuildAttrs constructs the outcome row AttrList with optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command) (al attrs.AttrList) {
	al = attrs.Outcomes()
	//nolint:errcheck
	{
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// DumpSchemaIfRequested writes the outcome row keys when --schema is set, and
// returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(writer(cmd))
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OutputOptions maps the global flags onto output.Options. Color is forced
// off when stdout is not a terminal.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Format:     cmd.String("output"),
		Filter:     cmd.String("filter"),
		Sort:       cmd.String("sort"),
		Color:      cmd.Bool("color") && isTerminal(os.Stdout),
		Titles:     cmd.Bool("titles"),
		Padding:    cmd.Int("padding"),
		Local:      cmd.Bool("local"),
		Aggregates: true,
	}
}

// NewLoader builds a source.Loader from the config file. Recognised keys are
// source.rate, source.concurrency, s3.profile, s3.region, s3.endpoint and
// cache.clean, the age in hours past which cached objects are purged.
func NewLoader(opts ...source.Option) *source.Loader {
	rate, _ := config.GetInt("source.rate", 0)
	concurrency, _ := config.GetInt("source.concurrency", 4)

	var awsOpts []aws.Option
	if profile, _ := config.GetString("s3.profile", ""); profile != "" {
		awsOpts = append(awsOpts, aws.WithProfile(profile))
	}
	if region, _ := config.GetString("s3.region", ""); region != "" {
		awsOpts = append(awsOpts, aws.WithRegion(region))
	}
	if endpoint, _ := config.GetString("s3.endpoint", ""); endpoint != "" {
		awsOpts = append(awsOpts, aws.WithEndpoint(endpoint))
	}

	all := []source.Option{
		source.WithRateLimit(float64(rate)),
		source.WithConcurrency(concurrency),
		source.WithAWS(awsOpts...),
	}

	if store, ok := cacheutil.Default(); ok {
		if cleanHours, _ := config.GetInt("cache.clean", 0); cleanHours > 0 {
			if err := store.Purge(time.Duration(cleanHours) * time.Hour); err != nil {
				log.WithError(err).Warn("cache purge failed")
			}
		}
		all = append(all, source.WithCache(store))
	}

	return source.NewLoader(append(all, opts...)...)
}

// ResolveSpecs maps relative specs onto the listing of the --in location.
// Without --in, specs must already be loadable.
func ResolveSpecs(ctx context.Context, cmd *cli.Command, loader *source.Loader, specs []string) ([]string, error) {
	var snaps []source.Snapshot
	if in := cmd.String("in"); in != "" {
		var err error
		if snaps, err = loader.List(ctx, in); err != nil {
			return nil, err
		}
	}
	resolved, err := source.Resolve(snaps, specs...)
	if err != nil {
		return nil, err
	}
	log.Debugf("specs resolved: specs=%v resolved=%v", specs, resolved)
	return resolved, nil
}

// LoadResults loads and decodes each spec. The raw documents are returned
// alongside, index for index.
func LoadResults(ctx context.Context, loader *source.Loader, specs ...string) ([]*audit.Result, [][]byte, error) {
	docs, err := loader.LoadAll(ctx, specs...)
	if err != nil {
		return nil, nil, err
	}

	results := make([]*audit.Result, len(docs))
	for i, doc := range docs {
		if results[i], err = audit.Decode(doc); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", specs[i], err)
		}
	}
	return results, docs, nil
}

// specName is the short label of a spec used in titles.
func specName(spec string) string {
	if spec == "-" {
		return "stdin"
	}
	return path.Base(spec)
}

// writer returns the root command's writer, defaulting to stdout.
func writer(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if root := cmd.Root(); root != nil && root.Writer != nil {
			return root.Writer
		}
	}
	return os.Stdout
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
