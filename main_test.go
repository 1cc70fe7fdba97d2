// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/a11ydiff/internal/config"
)

func TestDeduplicateFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "empty args",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "only program and command",
			args:     []string{"a11ydiff", "diff"},
			expected: []string{"a11ydiff", "diff"},
		},
		{
			name:     "no duplicates",
			args:     []string{"a11ydiff", "diff", "--output", "text", "--titles"},
			expected: []string{"a11ydiff", "diff", "--output", "text", "--titles"},
		},
		{
			name:     "duplicate flag with value - last wins",
			args:     []string{"a11ydiff", "diff", "--output", "json", "--titles", "--output", "text"},
			expected: []string{"a11ydiff", "diff", "--titles", "--output", "text"},
		},
		{
			name:     "duplicate boolean flag",
			args:     []string{"a11ydiff", "diff", "--titles", "--summary", "--titles"},
			expected: []string{"a11ydiff", "diff", "--summary", "--titles"},
		},
		{
			name:     "duplicate flag with equals syntax",
			args:     []string{"a11ydiff", "diff", "--output=json", "--titles", "--output=text"},
			expected: []string{"a11ydiff", "diff", "--titles", "--output=text"},
		},
		{
			name:     "mixed equals and space syntax - same flag",
			args:     []string{"a11ydiff", "diff", "--output=json", "--output", "text"},
			expected: []string{"a11ydiff", "diff", "--output", "text"},
		},
		{
			name:     "positional args preserved",
			args:     []string{"a11ydiff", "diff", "a.json", "--output", "json", "b.json", "--output", "text"},
			expected: []string{"a11ydiff", "diff", "a.json", "b.json", "--output", "text"},
		},
		{
			name:     "boolean flag does not swallow positional",
			args:     []string{"a11ydiff", "diff", "--titles", "a.json", "--titles", "b.json"},
			expected: []string{"a11ydiff", "diff", "a.json", "--titles", "b.json"},
		},
		{
			name:     "stdin spec is positional",
			args:     []string{"a11ydiff", "show", "-o", "json", "-"},
			expected: []string{"a11ydiff", "show", "-o", "json", "-"},
		},
		{
			name:     "short flags deduplicated",
			args:     []string{"a11ydiff", "diff", "-o", "json", "-o", "text"},
			expected: []string{"a11ydiff", "diff", "-o", "text"},
		},
		{
			name:     "triple duplicate",
			args:     []string{"a11ydiff", "diff", "--fail-on", "a", "--fail-on", "b", "--fail-on", "failed"},
			expected: []string{"a11ydiff", "diff", "--fail-on", "failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deduplicateFlags(tt.args))
		})
	}
}

func TestInjectConfigSet(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		insertIdx int
		entries   []string
		expected  []string
	}{
		{
			name:      "empty config returns args unchanged",
			args:      []string{"a11ydiff", "diff", "--titles"},
			insertIdx: 2,
			expected:  []string{"a11ydiff", "diff", "--titles"},
		},
		{
			name:      "multi-word entry split",
			args:      []string{"a11ydiff", "diff", "--titles"},
			insertIdx: 2,
			entries:   []string{"--output text"},
			expected:  []string{"a11ydiff", "diff", "--output", "text", "--titles"},
		},
		{
			name:      "multiple entries",
			args:      []string{"a11ydiff", "diff"},
			insertIdx: 2,
			entries:   []string{"--summary", "--fail-on failed"},
			expected:  []string{"a11ydiff", "diff", "--summary", "--fail-on", "failed"},
		},
		{
			name:      "insert at index 3",
			args:      []string{"a11ydiff", "diff", "a.json", "--titles"},
			insertIdx: 3,
			entries:   []string{"--summary"},
			expected:  []string{"a11ydiff", "diff", "a.json", "--summary", "--titles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, injectConfigSet(tt.args, tt.entries, tt.insertIdx))
		})
	}
}

func TestProcessSetOnly(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "a11ydiff.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
diff:
  defaults:
    - --titles
  ci:
    - --fail-on failed
    - -o json
`), 0o600))
	t.Setenv("A11YDIFF_CFG_FILE", cfg)
	_, err := config.Load()
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "defaults injected",
			args:     []string{"a11ydiff", "diff", "a.json", "b.json"},
			expected: []string{"a11ydiff", "diff", "--titles", "a.json", "b.json"},
		},
		{
			name:     "named set expanded in place",
			args:     []string{"a11ydiff", "diff", "a.json", "@ci", "b.json"},
			expected: []string{"a11ydiff", "diff", "a.json", "--fail-on", "failed", "-o", "json", "b.json"},
		},
		{
			name:     "unknown set dropped",
			args:     []string{"a11ydiff", "diff", "@nope", "a.json"},
			expected: []string{"a11ydiff", "diff", "a.json"},
		},
		{
			name:     "no sets for command",
			args:     []string{"a11ydiff", "show", "a.json"},
			expected: []string{"a11ydiff", "show", "a.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, processSetOnly(tt.args))
		})
	}
}

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"a11ydiff", "--help"}, handleNakedCommand([]string{"a11ydiff"}))
	assert.Equal(t, []string{"a11ydiff", "list"}, handleNakedCommand([]string{"a11ydiff", "list"}))
}
