// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package inspect

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml testdata/*.json
var testDataFS embed.FS

// drillTestCase represents a single test case for TestDrill.
type drillTestCase struct {
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	ExpectedStr string `yaml:"expectedStr"`
	IsNil       bool   `yaml:"isNil"`
	IsArray     bool   `yaml:"isArray"`
}

func TestDrill(t *testing.T) {
	data, err := testDataFS.ReadFile("testdata/drill_cases.yaml")
	require.NoError(t, err)
	var tests []drillTestCase
	require.NoError(t, yaml.Unmarshal(data, &tests))

	doc, err := testDataFS.ReadFile("testdata/screen1.json")
	require.NoError(t, err)
	root := gjson.ParseBytes(doc)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			result := Drill(root, tt.Path)

			switch {
			case tt.IsNil:
				assert.False(t, result.Exists(), "got %v", result.Value())
			case tt.IsArray:
				assert.True(t, result.IsArray(), "got %v", result.Value())
			default:
				require.True(t, result.Exists())
				assert.Equal(t, tt.ExpectedStr, result.String())
			}
		})
	}
}
