// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/differ"
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

// GlobalFlagsValidator checks flag combinations that single flag validators
// cannot see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Bool("schema") && c.String("output") != "text" {
		return fmt.Errorf("--schema cannot be combined with --output %s", c.String("output"))
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	s, _ := value.(string)
	if !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func PaddingValidator(value any) error {
	if n, ok := value.(int); !ok || n < 0 {
		return fmt.Errorf("padding must be a non-negative integer")
	}
	return nil
}

func ConcurrencyValidator(value any) error {
	if n, ok := value.(int); !ok || n < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	return nil
}

func VersionsValidator(value any) error {
	s, _ := value.(string)
	_, err := differ.ParseVersions(s)
	return err
}
