// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Resolve maps each spec onto a loadable spec using snapshots, a newest
// first listing. A spec can be -
//
//	~N      - the Nth newest snapshot, ~0 being the newest.
//	latest  - same as ~0.
//	-, s3://, http(s):// - passed through.
//	prefix  - the newest snapshot whose name starts with it.
//	path    - an existing local file, passed through.
func Resolve(snapshots []Snapshot, specs ...string) ([]string, error) {
	result := make([]string, 0, len(specs))
	for _, spec := range specs {
		s, err := resolveSpec(spec, snapshots)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

func resolveSpec(spec string, snapshots []Snapshot) (string, error) {
	if kind, err := Classify(spec); err == nil && kind != KindFile {
		return spec, nil
	}

	switch {
	case strings.EqualFold(spec, "latest"):
		return resolveIndex(0, snapshots)

	case strings.HasPrefix(spec, "~"):
		index, err := strconv.Atoi(spec[1:])
		if err != nil || index < 0 {
			return "", fmt.Errorf("invalid relative spec: %s", spec)
		}
		return resolveIndex(index, snapshots)
	}

	if spec != "" {
		for _, s := range snapshots {
			if strings.HasPrefix(s.Name, spec) {
				return s.Spec, nil
			}
		}
	}

	if isFilePath(spec) {
		return spec, nil
	}

	return "", fmt.Errorf("%w: %s", ErrSnapshotNotFound, spec)
}

func resolveIndex(index int, snapshots []Snapshot) (string, error) {
	if index > len(snapshots)-1 {
		return "", fmt.Errorf("%w: index %d out of range for %d snapshots", ErrSnapshotNotFound, index, len(snapshots))
	}
	return snapshots[index].Spec, nil
}

func isFilePath(s string) bool {
	info, err := os.Stat(s)
	return err == nil && !info.IsDir()
}
