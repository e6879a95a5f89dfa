// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws contains AWS SDK v2 helpers shared by the commands that talk to
// AWS directly: config loading, client construction, SSM parameter
// references and friendlier API errors.
package aws
