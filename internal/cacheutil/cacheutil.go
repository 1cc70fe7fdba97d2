// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tfctl/a11ydiff/internal/log"
)

// Entry is a cached artifact on disk. Key is the clear-text key; the file
// name is its SHA-256.
type Entry struct {
	Key  string
	Path string
	Data []byte
}

// Store is a directory of cached artifacts grouped in subdirectories.
type Store struct {
	Base string
}

// Dir resolves the base cache directory.
// Precedence:
//  1. A11YDIFF_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/a11ydiff
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("A11YDIFF_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "a11ydiff"), true
	}
	return "", false
}

// Enabled returns true unless A11YDIFF_CACHE is "0" or "false".
func Enabled() bool {
	v := os.Getenv("A11YDIFF_CACHE")
	return v != "0" && v != "false"
}

// Default returns the store rooted at Dir, or false when caching is disabled
// or no base directory can be resolved.
func Default() (*Store, bool) {
	if !Enabled() {
		return nil, false
	}
	base, ok := Dir()
	if !ok {
		return nil, false
	}
	return &Store{Base: base}, true
}

// EnsureBaseDir creates the default store's directory. It returns the path,
// whether the store is usable, and any creation error.
func EnsureBaseDir() (string, bool, error) {
	store, ok := Default()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(store.Base, 0o755); err != nil { //nolint:mnd
		return store.Base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	log.Debugf("cache dir ready: path=%s", store.Base)
	return store.Base, true, nil
}

// Path returns where key would be stored beneath subdirs and whether a file
// currently exists there.
func (s *Store) Path(subdirs []string, key string) (string, bool) {
	p := filepath.Join(append(append([]string{s.Base}, subdirs...), encodeKey(key))...)
	_, err := os.Stat(p)
	return p, err == nil
}

// Read returns the cached entry for key, if any.
func (s *Store) Read(subdirs []string, key string) (*Entry, bool) {
	p, ok := s.Path(subdirs, key)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", key)
	return &Entry{Key: key, Path: p, Data: bytes.TrimSpace(b)}, true
}

// Write stores data for key beneath subdirs, creating directories as needed.
func (s *Store) Write(subdirs []string, key string, data []byte) error {
	dir := filepath.Join(append([]string{s.Base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encodeKey(key))
	if err := os.WriteFile(p, data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", key)
	return nil
}

// Purge removes files older than maxAge. A non-positive maxAge disables
// purging.
func (s *Store) Purge(maxAge time.Duration) error {
	if maxAge <= 0 {
		log.Debug("cache purge disabled")
		return nil
	}

	err := filepath.Walk(s.Base, func(path string, info os.FileInfo, walkErr error) error {
		// Files can vanish underneath us when two runs share a cache.
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() || time.Since(info.ModTime()) <= maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		log.Debugf("removed cache file %s", path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

func encodeKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
