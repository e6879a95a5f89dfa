// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tfctl/edgestack/internal/cacheutil"
	"github.com/tfctl/edgestack/internal/command"
	"github.com/tfctl/edgestack/internal/config"
	"github.com/tfctl/edgestack/internal/log"
	"github.com/tfctl/edgestack/internal/util"
	"github.com/tfctl/edgestack/internal/version"
)

// cachePurgeHours is the age after which cache files are purged at startup.
const cachePurgeHours = 24 * 30

// repeatableFlags may legitimately appear more than once.
var repeatableFlags = map[string]bool{
	"cname": true,
}

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	switch {
	case len(args) > 1 && args[1] == "completion":
		// Short-circuit completion: pass args directly.
		return args
	default:
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)

		args = processProjectDirArg(args)
		return deduplicateFlags(args)
	}
}

// processProjectDirArg makes sure args[2] is the project directory, inserting
// the CWD when none was given.
func processProjectDirArg(args []string) []string {
	projectDir, _ := os.Getwd()
	if len(args) > 2 {
		if _, _, err := util.ParseProjectDir(args[2]); err == nil {
			projectDir = args[2]
		}
	}
	if len(args) == 2 {
		args = append(args, projectDir)
	} else if args[2] != projectDir {
		args = append(args[:2], append([]string{projectDir}, args[2:]...)...)
	}
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}
	if err := cacheutil.Purge(cachePurgeHours); err != nil {
		log.Debugf("cache purge err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands an @set argument into the flags listed under
// <command>.<set> in the config file. Without an explicit @set the
// "defaults" set is not applied.
func processSetOnly(args []string) []string {
	// Look for an explicit @set argument starting from index 2.
	idx := 2
	if len(args) <= idx {
		return args
	}
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			removeIdx := idx + i
			set := a[1:]
			args = append(args[:removeIdx], args[removeIdx+1:]...)
			entries, _ := config.GetStringSlice(args[1] + "." + set)
			return injectConfigSet(args, entries, removeIdx)
		}
	}
	return args
}

// injectConfigSet splits each entry into fields and inserts them at
// insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags drops all but the last occurrence of each flag after the
// command so later values (the command line) override earlier ones (an
// expanded @set). A flag followed by a non-flag token takes it as its value.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type group struct {
		name   string
		tokens []string
	}

	var groups []group
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			groups = append(groups, group{tokens: []string{a}})
			continue
		}

		g := group{name: strings.TrimLeft(a, "-"), tokens: []string{a}}
		if name, _, ok := strings.Cut(g.name, "="); ok {
			g.name = name
		} else if i+1 < len(rest) && !strings.HasPrefix(rest[i+1], "-") {
			g.tokens = append(g.tokens, rest[i+1])
			i++
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" && !repeatableFlags[g.name] {
			last[g.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, g := range groups {
		if j, ok := last[g.name]; ok && j != i {
			continue
		}
		out = append(out, g.tokens...)
	}
	return out
}
