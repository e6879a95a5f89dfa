// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/config"
	"github.com/tfctl/edgestack/internal/meta"
	"github.com/tfctl/edgestack/internal/stackinfo"
	"github.com/tfctl/edgestack/internal/template"
)

// outputsDefaultAttrs specifies the default columns of the "outputs" command
// output.
var outputsDefaultAttrs = []string{"name", "value"}

// outputsCommandAction lists the outputs of the deployed stack, or with
// --declared the outputs the synthesized template declares.
func outputsCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "outputs"

	fetch := func(ctx context.Context, cmd *cli.Command) (bytes.Buffer, error) {
		if cmd.Bool("declared") {
			tmpl, _, err := loadTemplate(ctx, cmd)
			if err != nil {
				return bytes.Buffer{}, err
			}
			return template.Outputs(tmpl)
		}

		cfg, err := loadAWSConfig(ctx, cmd)
		if err != nil {
			return bytes.Buffer{}, fmt.Errorf("failed to load aws config: %w", err)
		}
		s, err := stackinfo.Describe(ctx, newStackDescriber(cfg), stackName(cmd))
		if err != nil {
			return bytes.Buffer{}, err
		}
		cmd.Metadata["header"] = fmt.Sprintf("%s %s", s.Name, s.Status)
		return s.Rows()
	}

	return NewQueryActionRunner("outputs", outputsDefaultAttrs, fetch).Run(ctx, cmd)
}

// outputsCommandBuilder constructs the cli.Command for "outputs", wiring
// metadata, flags, and action handlers.
func outputsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "outputs",
		Usage:     "query the outputs of the deployed stack",
		UsageText: "edgestack outputs [ProjectDir[::stage]] [options]",
		Flags: append(NewStackFlags("outputs", meta.Config.Source),
			NewTemplateFlag(),
			&cli.BoolFlag{
				Name:  "declared",
				Usage: "list the outputs declared by the template instead of the deployed values",
			},
		),
		Action: outputsCommandAction,
		Meta:   meta,
	}).Build()
}
