// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/config"
	"github.com/tfctl/edgestack/internal/log"
	"github.com/tfctl/edgestack/internal/meta"
	"github.com/tfctl/edgestack/internal/template"
)

// resourcesDefaultAttrs specifies the default columns of the "resources"
// command output.
var resourcesDefaultAttrs = []string{"id", "type", "summary"}

// resourcesCommandAction lists the resources of the synthesized template.
func resourcesCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "resources"

	fetch := func(ctx context.Context, cmd *cli.Command) (bytes.Buffer, error) {
		tmpl, name, err := loadTemplate(ctx, cmd)
		if err != nil {
			return bytes.Buffer{}, err
		}
		log.Debugf("listing resources of %s", name)
		return template.Resources(tmpl)
	}

	return NewQueryActionRunner("resources", resourcesDefaultAttrs, fetch).Run(ctx, cmd)
}

// resourcesCommandBuilder constructs the cli.Command for "resources", wiring
// metadata, flags, and action handlers.
func resourcesCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "resources",
		Usage:     "list the resources of the synthesized template",
		UsageText: "edgestack resources [ProjectDir[::stage]] [options]",
		Flags:     append(NewStackFlags("resources", meta.Config.Source), NewTemplateFlag()),
		Schema:    true,
		Action:    resourcesCommandAction,
		Meta:      meta,
	}).Build()
}
