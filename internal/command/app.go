// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/config"
	"github.com/tfctl/edgestack/internal/log"
	"github.com/tfctl/edgestack/internal/meta"
	"github.com/tfctl/edgestack/internal/util"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// Save the CWD at startup and then defer restoring it so we're tidy.
	sd, _ := os.Getwd()
	defer func() {
		if err := os.Chdir(sd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to restore directory: %v\n", err)
		}
	}()

	// The arg[1] immediately following the binary (arg[0]) is the edgestack
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}
	config.Config.Namespace = ns

	// A missing config file is fine; flags and env still apply.
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("config not loaded: %v", err)
	}
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	// See if the arg immediately following the command might be a project
	// directory. If it begins with - it's a flag and the CWD is the project.
	// 'completion' takes a plain positional argument (bash or zsh).
	if ns != "completion" && len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		if dir, stage, err := util.ParseProjectDir(args[2]); err == nil {
			meta.ProjectDir = dir
			meta.Stage = stage
		} else {
			return nil, fmt.Errorf("failed to parse project dir (%s): %w", args[2], err)
		}
	} else {
		meta.ProjectDir = sd
	}

	app := &cli.Command{
		Name:  "edgestack",
		Usage: "OpenNext website stack on AWS",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "edgestack version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		synthCommandBuilder(meta),
		diffCommandBuilder(meta),
		resourcesCommandBuilder(meta),
		outputsCommandBuilder(meta),
		publishCommandBuilder(meta),
		zoneCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
