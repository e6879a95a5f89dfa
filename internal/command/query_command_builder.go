// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/meta"
)

// QueryCommandBuilder is a helper that constructs a cli.Command for the
// subcommands that emit rows (resources, outputs, zone) using a consistent
// pattern. The builder wires metadata, adds the tldr flag (and the schema
// flag when Schema is set), applies global flags, and sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Schema    bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append(qcb.Flags, tldrFlag)
	if qcb.Schema {
		flags = append(flags, schemaFlag)
	}

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(flags, NewGlobalFlags(qcb.Name)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}
