// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/cacheutil"
	"github.com/tfctl/edgestack/internal/config"
	"github.com/tfctl/edgestack/internal/log"
	"github.com/tfctl/edgestack/internal/meta"
	"github.com/tfctl/edgestack/internal/stack"
	"github.com/tfctl/edgestack/internal/template"
)

// defaultKeep is the number of cached templates kept per stack.
const defaultKeep = 20

// synthCommandAction synthesizes the Website stack into the cloud assembly
// directory and records the template in the cache for diff.
func synthCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	if ShortCircuitTLDR(ctx, cmd, "synth") {
		return nil
	}

	config.Config.Namespace = "synth"

	props, err := buildProps(ctx, cmd)
	if err != nil {
		return err
	}

	asm, err := stack.Synth(props, projectPath(cmd, stack.Outdir(cmd.String("outdir"))))
	if err != nil {
		return err
	}

	counts, err := template.CountByType(asm.Template)
	if err != nil {
		return err
	}
	total := 0
	types := make([]string, 0, len(counts))
	for typ, n := range counts {
		types = append(types, typ)
		total += n
	}
	sort.Strings(types)
	for _, typ := range types {
		log.Debugf("%4d %s", counts[typ], typ)
	}

	keep := cmd.Int("keep")
	if !cmd.IsSet("keep") {
		keep, _ = config.GetInt("keep", defaultKeep)
	}
	if err := cacheTemplate(asm.StackName, asm.Template, keep); err != nil {
		log.Warnf("template not cached: %v", err)
	}

	fmt.Fprintf(stdout, "Synthesized %s to %s (%d resources)\n", asm.StackName, asm.Dir, total)
	return nil
}

// cacheTemplate appends tmpl to the stack's template history unless it
// matches the newest entry, then prunes the history to keep entries.
func cacheTemplate(stackName string, tmpl []byte, keep int) error {
	if !cacheutil.Enabled() {
		return nil
	}

	subdirs := templateSubdirs(stackName)
	entries, err := cacheutil.List(subdirs)
	if err != nil {
		return err
	}
	if len(entries) > 0 && bytes.Equal(entries[0].Data, bytes.TrimSpace(tmpl)) {
		log.Debugf("template unchanged since %s", entries[0].ModTime)
		return nil
	}

	key := stackName + "@" + time.Now().UTC().Format(time.RFC3339Nano)
	if err := cacheutil.Write(subdirs, key, tmpl); err != nil {
		return err
	}
	if keep > 0 {
		return cacheutil.Prune(subdirs, keep)
	}
	return nil
}

// synthCommandBuilder constructs the cli.Command for "synth", wiring
// metadata, flags, and action handlers.
func synthCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "synth",
		Usage:     "synthesize the website stack",
		UsageText: "edgestack synth [ProjectDir[::stage]] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(NewStackFlags("synth", meta.Config.Source),
			&cli.StringFlag{
				Name:  "outdir",
				Usage: "cloud assembly directory. Defaults to CDK_OUTDIR, then cdk.out",
			},
			&cli.IntFlag{
				Name:  "keep",
				Usage: "number of synthesized templates kept for diff",
				Value: defaultKeep,
			},
			tldrFlag,
		),
		Action: synthCommandAction,
	}
}
