// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller resolves attr paths inside template rows, stepping into
// arrays by index and keeping CloudFormation intrinsic keys (Fn::Join and
// friends) addressable.
package driller
