// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/config"
	"github.com/tfctl/edgestack/internal/meta"
	"github.com/tfctl/edgestack/internal/zone"
)

// zoneDefaultAttrs specifies the default columns of the "zone" command
// output.
var zoneDefaultAttrs = []string{"id", "name", "private", "records"}

// zoneCommandAction resolves the hosted zone serving --domain, or lists every
// zone when --domain is empty.
func zoneCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "zone"

	fetch := func(ctx context.Context, cmd *cli.Command) (bytes.Buffer, error) {
		cfg, err := loadAWSConfig(ctx, cmd)
		if err != nil {
			return bytes.Buffer{}, fmt.Errorf("failed to load aws config: %w", err)
		}
		client := newZoneLister(cfg)

		var zones []zone.HostedZone
		if domain := cmd.String("domain"); domain != "" {
			hz, err := zone.Find(ctx, client, domain)
			if err != nil {
				return bytes.Buffer{}, err
			}
			zones = []zone.HostedZone{hz}
		} else if zones, err = zone.List(ctx, client); err != nil {
			return bytes.Buffer{}, err
		}

		if zones == nil {
			zones = []zone.HostedZone{}
		}
		b, err := json.Marshal(zones)
		if err != nil {
			return bytes.Buffer{}, fmt.Errorf("failed to marshal zones: %w", err)
		}
		return *bytes.NewBuffer(b), nil
	}

	return NewQueryActionRunner("zone", zoneDefaultAttrs, fetch).Run(ctx, cmd)
}

// zoneCommandBuilder constructs the cli.Command for "zone", wiring metadata,
// flags, and action handlers.
func zoneCommandBuilder(meta meta.Meta) *cli.Command {
	domainFlag := &cli.StringFlag{
		Name:  "domain",
		Usage: "resolve the zone serving this domain. Lists all zones when empty",
		Sources: cli.NewValueSourceChain(
			envVar("EDGESTACK_DOMAIN"),
			envVar("DOMAIN"),
		),
	}
	if meta.Config.Source != "" {
		domainFlag = NameSpacedValueChainFlagFromConfigFile("zone", meta.Config.Source, domainFlag)
	}

	return (&QueryCommandBuilder{
		Name:      "zone",
		Usage:     "resolve the Route 53 hosted zone for a domain",
		UsageText: "edgestack zone [ProjectDir[::stage]] [options]",
		Flags: []cli.Flag{
			domainFlag,
			NewProfileFlag("zone", meta.Config.Source),
			NewRegionFlag("zone", meta.Config.Source),
		},
		Action: zoneCommandAction,
		Meta:   meta,
	}).Build()
}
