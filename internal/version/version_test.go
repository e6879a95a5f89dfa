// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppID(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.True(t, strings.HasPrefix(AppID(), "edgestack/"))
	assert.True(t, strings.HasSuffix(AppID(), Version))
}
