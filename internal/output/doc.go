// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output filters, sorts and renders row sets as text tables, JSON,
// YAML or the raw payload.
package output
