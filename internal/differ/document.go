// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"

	jd "github.com/josephburnett/jd/lib"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/a11ydiff/internal/log"
)

// DocumentOptions controls DocumentDiff and DocumentPatch.
type DocumentOptions struct {
	// Ignore lists top level keys dropped from both documents before
	// comparing, typically "durations" which differs on every run.
	Ignore []string
	// Color enables ANSI colouring of the ASCII diff.
	Color bool
}

// DocumentDiff writes a structural ASCII diff of two raw result documents to
// w, or a one line notice when they are identical.
func DocumentDiff(w io.Writer, previous, current []byte, opts DocumentOptions) error {
	left, right, err := prepareDocuments(previous, current, opts.Ignore)
	if err != nil {
		return err
	}

	delta := gojsondiff.New().CompareObjects(left, right)
	if !delta.Modified() {
		fmt.Fprintln(w, "The results are identical.")
		return nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       opts.Color,
	}

	out, err := formatter.NewAsciiFormatter(left, config).Format(delta)
	if err != nil {
		return fmt.Errorf("failed to format diff: %w", err)
	}

	fmt.Fprintln(w, out)
	return nil
}

// DocumentPatch returns the RFC 6902 JSON patch turning previous into current.
func DocumentPatch(previous, current []byte, opts DocumentOptions) (string, error) {
	left, right, err := prepareDocuments(previous, current, opts.Ignore)
	if err != nil {
		return "", err
	}

	a, err := toNode(left)
	if err != nil {
		return "", err
	}
	b, err := toNode(right)
	if err != nil {
		return "", err
	}

	patch, err := a.Diff(b).RenderPatch()
	if err != nil {
		return "", fmt.Errorf("failed to render patch: %w", err)
	}
	return patch, nil
}

func prepareDocuments(previous, current []byte, ignore []string) (map[string]interface{}, map[string]interface{}, error) {
	if len(previous) == 0 || len(current) == 0 {
		return nil, nil, fmt.Errorf("both documents are required")
	}

	var left, right map[string]interface{}
	if err := json.Unmarshal(previous, &left); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal previous result: %w", err)
	}
	if err := json.Unmarshal(current, &right); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal current result: %w", err)
	}

	for _, key := range ignore {
		if key == "" {
			continue
		}
		delete(left, key)
		delete(right, key)
	}
	log.Debugf("documents prepared: ignore=%v", ignore)

	return left, right, nil
}

func toNode(doc map[string]interface{}) (jd.JsonNode, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	node, err := jd.ReadJsonString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return node, nil
}
