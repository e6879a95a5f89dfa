// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProjectDir(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T) string
		wantStage string
		wantErr   bool
		errIs     error
	}{
		{
			name:     "absolute_path_no_stage",
			setupDir: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name:      "absolute_path_with_stage",
			setupDir:  func(t *testing.T) string { return t.TempDir() + "::prod" },
			wantStage: "prod",
		},
		{
			name: "relative_path_with_stage",
			setupDir: func(t *testing.T) string {
				tmpDir := t.TempDir()
				oldCwd, err := os.Getwd()
				if err != nil {
					t.Fatalf("failed to get cwd: %v", err)
				}
				if err := os.Chdir(filepath.Dir(tmpDir)); err != nil {
					t.Fatalf("failed to chdir: %v", err)
				}
				t.Cleanup(func() { _ = os.Chdir(oldCwd) })
				return filepath.Base(tmpDir) + "::staging"
			},
			wantStage: "staging",
		},
		{
			name:     "nonexistent_directory",
			setupDir: func(t *testing.T) string { return "/nonexistent/path/that/does/not/exist" },
			wantErr:  true,
			errIs:    os.ErrNotExist,
		},
		{
			name: "file_not_directory",
			setupDir: func(t *testing.T) string {
				tmpFile := filepath.Join(t.TempDir(), "file.txt")
				if err := os.WriteFile(tmpFile, []byte("test"), 0o600); err != nil {
					t.Fatalf("failed to create temp file: %v", err)
				}
				return tmpFile
			},
			wantErr: true,
			errIs:   os.ErrInvalid,
		},
		{
			name:     "empty_stage",
			setupDir: func(t *testing.T) string { return t.TempDir() + "::" },
		},
		{
			name:      "stage_with_whitespace_is_trimmed",
			setupDir:  func(t *testing.T) string { return t.TempDir() + "::  dev  " },
			wantStage: "dev",
		},
		{
			name:     "invalid_stage",
			setupDir: func(t *testing.T) string { return t.TempDir() + "::dev_1" },
			wantErr:  true,
			errIs:    os.ErrInvalid,
		},
		{
			name:     "empty_spec",
			setupDir: func(t *testing.T) string { return "" },
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, stage, err := ParseProjectDir(tt.setupDir(t))

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				return
			}

			assert.NoError(t, err)
			assert.True(t, filepath.IsAbs(dir))
			assert.Equal(t, tt.wantStage, stage)
		})
	}
}

func TestStackName(t *testing.T) {
	assert.Equal(t, "Website", StackName("Website", ""))
	assert.Equal(t, "Website-prod", StackName("Website", "prod"))
}
