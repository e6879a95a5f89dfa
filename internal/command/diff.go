// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/cacheutil"
	"github.com/tfctl/edgestack/internal/config"
	"github.com/tfctl/edgestack/internal/differ"
	"github.com/tfctl/edgestack/internal/log"
	"github.com/tfctl/edgestack/internal/meta"
)

// defaultIgnore lists the template sections CDK rewrites on every bootstrap
// version bump.
const defaultIgnore = "Parameters,Rules"

// diffCommandAction compares templates. By default the fresh synthesis is
// compared with the newest cached one; --versions picks other pairs.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}

	config.Config.Namespace = "diff"

	sel, err := differ.ParseVersions(cmd.String("versions"))
	if err != nil {
		return err
	}

	name := stackName(cmd)
	entries, err := cacheutil.List(templateSubdirs(name))
	if err != nil {
		return err
	}
	history := historyVersions(entries)
	log.Debugf("diff: stack=%s history=%d selection=%+v", name, len(history), sel)

	var current differ.Version
	if sel.Pick || len(sel.Indexes) == 1 {
		tmpl, _, err := loadTemplate(ctx, cmd)
		if err != nil {
			return err
		}
		current = differ.Version{Label: "current", Time: time.Now(), Data: tmpl}
	}

	var pair [2]differ.Version
	if sel.Pick {
		selected, err := differ.SelectVersions(append([]differ.Version{current}, history...))
		if err != nil {
			return err
		}
		if len(selected) != 2 {
			log.Debug("no versions selected")
			return nil
		}
		pair = [2]differ.Version{selected[0], selected[1]}
		if pair[0].Time.After(pair[1].Time) {
			pair[0], pair[1] = pair[1], pair[0]
		}
	} else if pair, err = sel.Resolve(current, history); err != nil {
		if len(history) == 0 {
			return fmt.Errorf("no cached templates for %s, run synth first: %w", name, err)
		}
		return err
	}

	if cmd.Bool("titles") {
		fmt.Fprintf(stdout, "--- %s\n+++ %s\n", pair[0], pair[1])
	}

	_, err = differ.Diff(stdout, pair[0].Data, pair[1].Data, differ.Options{
		Ignore: splitList(cmd.String("ignore")),
		Color:  cmd.Bool("color"),
	})
	return err
}

// historyVersions labels cached templates by their position, newest first.
func historyVersions(entries []*cacheutil.Entry) []differ.Version {
	versions := make([]differ.Version, 0, len(entries))
	for i, e := range entries {
		versions = append(versions, differ.Version{
			Label: fmt.Sprintf("%d %s", i, e.ModTime.Format("2006-01-02 15:04:05")),
			Time:  e.ModTime,
			Data:  e.Data,
		})
	}
	return versions
}

// diffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and action handlers.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "diff synthesized templates",
		UsageText: "edgestack diff [ProjectDir[::stage]] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(NewStackFlags("diff", meta.Config.Source),
			NewTemplateFlag(),
			tldrFlag,
			&cli.StringFlag{
				Name:  "versions",
				Usage: "cached versions to compare: N (with current), N,M, or + to pick",
				Validator: func(value string) error {
					return FlagValidators(value, VersionsValidator)
				},
			},
			&cli.StringFlag{
				Name:  "ignore",
				Usage: "comma-separated list of template sections to leave out",
				Value: defaultIgnore,
			},
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output",
			},
			&cli.BoolFlag{
				Name:    "titles",
				Aliases: []string{"t"},
				Usage:   "show the compared versions",
			},
		),
		Action: diffCommandAction,
	}
}
