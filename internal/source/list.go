// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/a11ydiff/internal/log"
)

// Snapshot is one stored result document found by List.
type Snapshot struct {
	// Name is the document's name relative to the listed location.
	Name string `json:"name"`
	// Spec loads the document with Loader.Load.
	Spec     string    `json:"spec"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// List enumerates the *.json documents in a directory or beneath an
// s3://bucket/prefix, newest first.
func (l *Loader) List(ctx context.Context, location string) ([]Snapshot, error) {
	var (
		snaps []Snapshot
		err   error
	)

	if strings.HasPrefix(location, "s3://") {
		snaps, err = l.listS3(ctx, location)
	} else {
		snaps, err = listDir(location)
	}
	if err != nil {
		return nil, err
	}

	sortNewestFirst(snaps)
	log.Debugf("listed snapshots: location=%s count=%d", location, len(snaps))
	return snaps, nil
}

func listDir(dir string) ([]Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	snaps := []Snapshot{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			log.WithError(err).Warnf("skipping %s", e.Name())
			continue
		}
		snaps = append(snaps, Snapshot{
			Name:     e.Name(),
			Spec:     filepath.Join(dir, e.Name()),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	return snaps, nil
}

func (l *Loader) listS3(ctx context.Context, location string) ([]Snapshot, error) {
	bucket, prefix, err := splitS3(location)
	if err != nil {
		return nil, err
	}

	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	input := &s3v2.ListObjectsV2Input{Bucket: awsv2.String(bucket)}
	if prefix != "" {
		input.Prefix = awsv2.String(prefix)
	}

	snaps := []Snapshot{}
	pager := s3v2.NewListObjectsV2Paginator(client, input)
	for pager.HasMorePages() {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", location, err)
		}
		for _, obj := range page.Contents {
			key := awsv2.ToString(obj.Key)
			if !strings.EqualFold(filepath.Ext(key), ".json") {
				continue
			}
			snaps = append(snaps, Snapshot{
				Name:     strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/"),
				Spec:     "s3://" + bucket + "/" + key,
				Size:     awsv2.ToInt64(obj.Size),
				Modified: awsv2.ToTime(obj.LastModified),
			})
		}
	}
	return snaps, nil
}

// sortNewestFirst orders by modification time, breaking ties by name so
// snapshots written within the same second still order predictably.
func sortNewestFirst(snaps []Snapshot) {
	slices.SortStableFunc(snaps, func(a, b Snapshot) int {
		if c := b.Modified.Compare(a.Modified); c != 0 {
			return c
		}
		return cmp.Compare(b.Name, a.Name)
	})
}
