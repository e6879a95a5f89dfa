// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/log"
	"github.com/tfctl/edgestack/internal/output"
)

// QueryActionRunner encapsulates the common action pattern of the row
// emitting subcommands. It handles GetMeta, the tldr short-circuit,
// BuildAttrs, schema dumping and output emission, with data fetching
// provided by FetchFn as a JSON array of rows.
type QueryActionRunner struct {
	CommandName  string
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) (bytes.Buffer, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	// Step 1: GetMeta + debug.
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	// Step 2: Short-circuit tldr.
	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}

	// Step 3: BuildAttrs + debug.
	attrs, err := BuildAttrs(cmd, qar.DefaultAttrs...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", attrs)

	// Step 4: Fetch data.
	raw, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	// Step 5: Schema short-circuit, then emit.
	if DumpSchemaIfRequested(cmd, raw) {
		return nil
	}
	return output.SliceDiceSpit(raw, attrs, cmd, "", stdout, nil)
}

// NewQueryActionRunner creates a QueryActionRunner with the provided
// configuration.
func NewQueryActionRunner(
	commandName string,
	defaultAttrs []string,
	fetchFn func(context.Context, *cli.Command) (bytes.Buffer, error),
) *QueryActionRunner {
	return &QueryActionRunner{
		CommandName:  commandName,
		DefaultAttrs: defaultAttrs,
		FetchFn:      fetchFn,
	}
}
