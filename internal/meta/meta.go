// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/edgestack/internal/config"
)

// ProjectSpec holds the resolved project directory and the optional stage
// suffix parsed from a "dir::stage" argument.
type ProjectSpec struct {
	ProjectDir string
	Stage      string
}

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the resolved project specification, and the
// starting working directory.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	ProjectSpec
	StartingDir string
}
