// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/a11ydiff/internal/log"
)

// parseS3 splits s3://bucket/key, requiring both parts.
func parseS3(spec string) (string, string, error) {
	bucket, key, err := splitS3(spec)
	if err != nil {
		return "", "", err
	}
	if key == "" {
		return "", "", fmt.Errorf("%w: missing object key in %q", ErrUnsupportedSource, spec)
	}
	return bucket, key, nil
}

// splitS3 splits s3://bucket/prefix where the prefix may be empty.
func splitS3(spec string) (string, string, error) {
	rest, ok := strings.CutPrefix(spec, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an s3 URL", ErrUnsupportedSource, spec)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%w: missing bucket in %q", ErrUnsupportedSource, spec)
	}
	return bucket, key, nil
}

// loadS3 fetches an object, going through the cache when one is configured.
// Cache entries are keyed by the object's ETag so an overwritten object is
// fetched again.
func (l *Loader) loadS3(ctx context.Context, spec string) ([]byte, error) {
	bucket, key, err := parseS3(spec)
	if err != nil {
		return nil, err
	}

	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var cacheKey string
	if l.cache != nil {
		head, err := client.HeadObject(ctx, &s3v2.HeadObjectInput{
			Bucket: awsv2.String(bucket),
			Key:    awsv2.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", spec, err)
		}
		cacheKey = key + "@" + awsv2.ToString(head.ETag)
		if entry, ok := l.cache.Read([]string{"s3", bucket}, cacheKey); ok {
			return entry.Data, nil
		}
	}

	out, err := client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", spec, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", spec, err)
	}
	log.Debugf("s3 fetch: bucket=%s key=%s bytes=%d", bucket, key, len(data))

	if l.cache != nil {
		if err := l.cache.Write([]string{"s3", bucket}, cacheKey, data); err != nil {
			log.WithError(err).Warn("failed to cache s3 object")
		}
	}

	return data, nil
}
