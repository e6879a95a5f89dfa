// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		key  string
		want Class
	}{
		{"_next/static/chunks/main-abc123.js", Immutable},
		{"/_next/static/css/app.css", Immutable},
		{"_next/data/build/index.json", Immutable},
		{"favicon.ico", Revalidate},
		{"images/logo.png", Revalidate},
		{"_nextish/file.js", Revalidate},
		{"BUILD_ID", Revalidate},
		{"./_next/x.js", Immutable},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.key))
		})
	}
}

func TestClass_CacheControl(t *testing.T) {
	assert.Equal(t, "public,max-age=31536000,immutable", Immutable.CacheControl())
	assert.Equal(t, "public,max-age=0,s-maxage=31536000,must-revalidate", Revalidate.CacheControl())
	assert.Equal(t, "immutable", Immutable.String())
	assert.Equal(t, "revalidate", Revalidate.String())
}

func TestImmutablePatterns(t *testing.T) {
	assert.Equal(t, []string{"_next/*"}, ImmutablePatterns())
}
