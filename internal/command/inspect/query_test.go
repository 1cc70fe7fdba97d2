// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package inspect

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDocument(t *testing.T) *Document {
	t.Helper()
	raw, err := os.ReadFile("testdata/screen1.json")
	require.NoError(t, err)
	doc, err := NewDocument(raw)
	require.NoError(t, err)
	return doc
}

func TestProcessQuery(t *testing.T) {
	doc := loadDocument(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "plain string",
			query: "page.title",
			want:  "Code Checker Example: SPA\n",
		},
		{
			name:  "plain number",
			query: "page.device.viewport.width",
			want:  "1280\n",
		},
		{
			name:  "array one per line",
			query: "outcomes.@keys",
			want: "https://alfa.siteimprove.com/rules/sia-r1\n" +
				"https://alfa.siteimprove.com/rules/sia-r8\n" +
				"https://alfa.siteimprove.com/rules/sia-r69\n",
		},
		{
			name:  "json mode",
			query: ".page.device.viewport",
			want:  "{\n  \"width\": 1280,\n  \"height\": 720\n}\n",
		},
		{
			name:  "drill path",
			query: "outcomes.~sia-r69[0].target",
			want:  "/html/body/main/h1/text()\n",
		},
		{
			name:  "missing path",
			query: "nothing.here",
			want:  "",
		},
		{
			name:  "rules",
			query: "rules",
			want: "https://alfa.siteimprove.com/rules/sia-r1  failed=0 passed=1 cantTell=0\n" +
				"https://alfa.siteimprove.com/rules/sia-r8  failed=1 passed=0 cantTell=0\n" +
				"https://alfa.siteimprove.com/rules/sia-r69  failed=0 passed=0 cantTell=1\n",
		},
		{
			name:  "rule by suffix",
			query: "rule sia-r8",
			want: "https://alfa.siteimprove.com/rules/sia-r8\n" +
				"  failed   /html/body/main/form/input[@id='petName']\n",
		},
		{
			name:  "rule without id",
			query: "rule",
			want:  "Error: rule needs an id or id suffix\n",
		},
		{
			name:  "value",
			query: "value cant-tell",
			want:  "https://alfa.siteimprove.com/rules/sia-r69  /html/body/main/h1/text()\n",
		},
		{
			name:  "unknown value",
			query: "value maybe",
			want:  "Error: unknown outcome value \"maybe\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			ProcessQuery(&b, doc, tt.query)
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestProcessQuery_WholeDocument(t *testing.T) {
	doc := loadDocument(t)

	var b strings.Builder
	ProcessQuery(&b, doc, ".")
	assert.True(t, strings.HasPrefix(b.String(), "{\n"))
	assert.Contains(t, b.String(), `"alfaVersion": "0.98.0"`)
}

func TestNewDocument_Malformed(t *testing.T) {
	_, err := NewDocument([]byte(`{"page": {}}`))
	assert.Error(t, err)
}
