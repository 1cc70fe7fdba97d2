// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	valid "github.com/asaskevich/govalidator"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tfctl/a11ydiff/internal/aws"
	"github.com/tfctl/a11ydiff/internal/cacheutil"
	"github.com/tfctl/a11ydiff/internal/log"
)

var (
	// ErrUnsupportedSource is returned for a spec no loader understands.
	ErrUnsupportedSource = errors.New("unsupported source")
	// ErrSnapshotNotFound is returned when a relative spec matches nothing.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Kind identifies where a result document lives.
type Kind int

const (
	KindFile Kind = iota
	KindStdin
	KindS3
	KindHTTP
)

func (k Kind) String() string {
	switch k {
	case KindStdin:
		return "stdin"
	case KindS3:
		return "s3"
	case KindHTTP:
		return "http"
	default:
		return "file"
	}
}

// Classify reports the Kind of spec, rejecting malformed URLs and unknown
// schemes.
func Classify(spec string) (Kind, error) {
	switch {
	case spec == "":
		return 0, fmt.Errorf("%w: empty spec", ErrUnsupportedSource)
	case spec == "-":
		return KindStdin, nil
	case strings.HasPrefix(spec, "s3://"):
		if _, _, err := parseS3(spec); err != nil {
			return 0, err
		}
		return KindS3, nil
	case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
		if !valid.IsURL(spec) {
			return 0, fmt.Errorf("%w: invalid URL %q", ErrUnsupportedSource, spec)
		}
		return KindHTTP, nil
	case strings.Contains(spec, "://"):
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedSource, spec)
	default:
		return KindFile, nil
	}
}

// S3API is the subset of the S3 client the loader uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3v2.ListObjectsV2Input, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error)
}

type limiter interface {
	Wait(context.Context) error
}

// Loader fetches raw result documents named by source specs.
type Loader struct {
	stdin       io.Reader
	client      *http.Client
	limiter     limiter
	cache       *cacheutil.Store
	awsOpts     []aws.Option
	concurrency int

	mu  sync.Mutex
	s3  S3API
	err error
}

// Option configures a Loader.
type Option func(*Loader)

// WithStdin sets the reader used for the "-" spec.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) { l.stdin = r }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithRateLimit caps remote fetches per second. Zero or less is unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(l *Loader) {
		if perSecond <= 0 {
			l.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		l.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithCache caches S3 objects in store.
func WithCache(store *cacheutil.Store) Option {
	return func(l *Loader) { l.cache = store }
}

// WithS3Client sets the S3 client instead of building one from AWS config.
func WithS3Client(c S3API) Option {
	return func(l *Loader) { l.s3 = c }
}

// WithAWS passes options to the AWS config loader.
func WithAWS(opts ...aws.Option) Option {
	return func(l *Loader) { l.awsOpts = append(l.awsOpts, opts...) }
}

// WithConcurrency bounds how many documents LoadAll fetches at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// NewLoader returns a Loader reading stdin from os.Stdin, with no rate limit
// and no cache unless configured otherwise.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		stdin:       os.Stdin,
		client:      &http.Client{},
		limiter:     rate.NewLimiter(rate.Inf, 1),
		concurrency: 4, //nolint:mnd
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the raw document named by spec.
func (l *Loader) Load(ctx context.Context, spec string) ([]byte, error) {
	kind, err := Classify(spec)
	if err != nil {
		return nil, err
	}
	log.Debugf("loading source: kind=%s spec=%s", kind, spec)

	switch kind {
	case KindStdin:
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	case KindS3:
		return l.loadS3(ctx, spec)
	case KindHTTP:
		return l.loadHTTP(ctx, spec)
	default:
		data, err := os.ReadFile(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", spec, err)
		}
		return data, nil
	}
}

// LoadAll loads every spec concurrently and returns the documents in
// argument order. The first failure cancels the rest.
func (l *Loader) LoadAll(ctx context.Context, specs ...string) ([][]byte, error) {
	stdin := 0
	for _, spec := range specs {
		if spec == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return nil, fmt.Errorf("%w: stdin can be read only once", ErrUnsupportedSource)
	}

	docs := make([][]byte, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, spec := range specs {
		g.Go(func() error {
			data, err := l.Load(gctx, spec)
			if err != nil {
				return err
			}
			docs[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (l *Loader) loadHTTP(ctx context.Context, url string) ([]byte, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	log.Debugf("http fetch: url=%s bytes=%d", url, len(data))
	return data, nil
}

// s3Client lazily builds the S3 client on first use.
func (l *Loader) s3Client(ctx context.Context) (S3API, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.s3 != nil || l.err != nil {
		return l.s3, l.err
	}

	client, err := aws.NewS3Client(ctx, l.awsOpts...)
	if err != nil {
		l.err = fmt.Errorf("failed to create S3 client: %w", err)
		return nil, l.err
	}
	l.s3 = client
	return l.s3, nil
}
