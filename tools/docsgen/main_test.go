// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templates = "../../docs/templates"

func TestLoadConfig(t *testing.T) {
	config, err := loadConfig(filepath.Join(templates, "edgestack.yaml"))
	require.NoError(t, err)

	var ids []string
	for _, sub := range config.Subcommands {
		ids = append(ids, sub.ID)
		assert.NotEmpty(t, sub.Usage, sub.ID)
		assert.NotEmpty(t, sub.Examples, sub.ID)
	}
	assert.Equal(t, []string{"synth", "diff", "resources", "outputs", "publish", "zone"}, ids)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMergeFlags(t *testing.T) {
	common := Common{
		Flags: []Flag{{ID: "output"}, {ID: "attrs"}},
		Stack: []Flag{{ID: "domain"}},
	}

	got := mergeFlags(common, Subcommand{QueryFlags: true, StackFlags: true, Flags: []Flag{{ID: "template"}}})
	var ids []string
	for _, f := range got {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"attrs", "domain", "output", "template"}, ids)

	got = mergeFlags(common, Subcommand{Flags: []Flag{{ID: "yes"}}})
	require.Len(t, got, 1)
	assert.Equal(t, "yes", got[0].ID)

	// The shared slice is not modified.
	assert.Equal(t, "output", common.Flags[0].ID)
}

func TestRender(t *testing.T) {
	config, err := loadConfig(filepath.Join(templates, "edgestack.yaml"))
	require.NoError(t, err)

	sub := config.Subcommands[0]
	sub.Flags = mergeFlags(config.Common, sub)
	data := TemplateData{Subcommand: sub, Date: "June 1, 2026", Version: "1.2.3", IDUpper: "SYNTH"}

	for _, name := range []string{"edgestack.md.tmpl", "edgestack.man.tmpl", "edgestack.tldr.tmpl"} {
		t.Run(name, func(t *testing.T) {
			tmpl, err := template.ParseFiles(filepath.Join(templates, name))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, render(tmpl, &buf, data))
			assert.Contains(t, buf.String(), "edgestack synth --domain example.com")
		})
	}
}
