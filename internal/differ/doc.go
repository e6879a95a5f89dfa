// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ compares synthesized templates, either the current synthesis
// against cached history or two cached versions picked interactively.
package differ
