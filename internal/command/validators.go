// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/a11ydiff/internal/audit"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks combinations of flags that no single flag
// validator can see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Bool("summary") && c.IsSet("output") && c.String("output") != "text" {
		return fmt.Errorf("--summary only applies to text output")
	}
	if c.Int("padding") < 0 {
		return fmt.Errorf("--padding must not be negative")
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	if s, ok := value.(string); !ok || !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// FailOnValidator accepts a comma-separated list of outcome values. An empty
// list disables the gate.
func FailOnValidator(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	_, err := parseFailOn(s)
	return err
}

// parseFailOn returns the outcome values named in spec, deduplicated and in
// the order given. "any" stands for every value counted by the aggregates.
func parseFailOn(spec string) ([]audit.Value, error) {
	var values []audit.Value
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, "any") {
			return slices.Clone(audit.Values), nil
		}
		v, ok := audit.ParseValue(part)
		if !ok || !slices.Contains(audit.Values, v) {
			return nil, fmt.Errorf("%w: %q, must be one of %v or any", audit.ErrUnknownOutcome, part, audit.Values)
		}
		if !slices.Contains(values, v) {
			values = append(values, v)
		}
	}
	return values, nil
}
