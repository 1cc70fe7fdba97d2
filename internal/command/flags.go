// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// newSchemaFlag and newSummaryFlag return fresh instances since a flag keeps
// its parsed value.
func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the outcome row schema",
		HideDefault: true,
	}
}

func newSummaryFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "summary",
		Usage:       "print per-rule aggregates instead of outcome rows",
		HideDefault: true,
	}
}

// NewGlobalFlags returns the output flags shared by every result command.
// params[0] is the command namespace and params[1] the config file. When
// both are given the string flags may also be set from the config file,
// namespaced key first.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	stringFlags := []*cli.StringFlag{
		{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Sources: cli.EnvVars("A11YDIFF_ATTRS"),
		},
		{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Sources: cli.EnvVars("A11YDIFF_OUTPUT"),
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
	}

	for _, f := range stringFlags {
		if len(params) == 2 && params[1] != "" {
			f = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], f)
		}
		flags = append(flags, f)
	}

	flags = append(flags,
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.EnvVars("A11YDIFF_COLOR"),
			Value:   false,
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
			Value:   false,
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "spaces between table columns",
			Value: 2,
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	)

	return
}

// NewInFlag constructs the --in flag naming the directory or s3://prefix
// that relative specs such as ~1 are resolved against.
func NewInFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "in",
		Aliases: []string{"i"},
		Usage:   "snapshot location for relative specs like ~1 or latest",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("A11YDIFF_IN"),
		),
	}

	if len(params) == 2 && params[1] != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
