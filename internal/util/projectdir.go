// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// stageRegex limits stages to characters that are valid in a CloudFormation
// stack name.
var stageRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// ParseProjectDir parses a "dir[::stage]" string and returns the absolute
// project directory and the optional stage. It returns an error if the fs
// entry does not exist, is empty or is not a directory, or if the stage is not
// usable in a stack name.
func ParseProjectDir(spec string) (string, string, error) {
	if spec == "" {
		return "", "", os.ErrInvalid
	}

	var stage string
	parts := strings.Split(spec, "::")
	if len(parts) > 1 {
		stage = strings.TrimSpace(parts[1])
	}
	if stage != "" && !stageRegex.MatchString(stage) {
		return "", "", fmt.Errorf("invalid stage %q: %w", stage, os.ErrInvalid)
	}

	dir, err := filepath.Abs(parts[0])
	if err != nil {
		return "", "", err
	}

	if r, err := os.Stat(dir); err != nil {
		return "", "", err
	} else if !r.IsDir() {
		return "", "", os.ErrInvalid
	}

	return dir, stage, nil
}

// StackName joins a base stack name and an optional stage.
func StackName(base, stage string) string {
	if stage == "" {
		return base
	}
	return base + "-" + stage
}
