package source

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-hlvl/pkg/model"
)

const (
	// DefaultRequestTimeout bounds remote reads when no timeout is configured.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultMaxBytes caps the size of a fetched model.
	DefaultMaxBytes int64 = 8 << 20
)

// Fetcher resolves the model text for a resource kind. Inline text is returned
// unchanged; URLs are read in full.
type Fetcher interface {
	Fetch(ctx context.Context, kind model.ResourceKind, content string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, kind model.ResourceKind, content string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, kind model.ResourceKind, content string) (string, error) {
	return f(ctx, kind, content)
}

// FetcherOptions configures how remote resources are read.
type FetcherOptions struct {
	// HTTPClient overrides the client used for http/https URLs.
	HTTPClient *http.Client

	// RequestTimeout caps a single remote read. Zero means
	// DefaultRequestTimeout; a negative value disables the bound.
	RequestTimeout time.Duration

	// MaxBytes caps the body size. Zero means DefaultMaxBytes.
	MaxBytes int64

	// AllowFileURLs enables file:// addresses. Off by default because the
	// fetcher usually serves remote callers.
	AllowFileURLs bool
}

// FetcherOption mutates FetcherOptions prior to construction.
type FetcherOption func(*FetcherOptions)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(opts *FetcherOptions) {
		opts.HTTPClient = client
	}
}

// WithRequestTimeout bounds remote reads.
func WithRequestTimeout(timeout time.Duration) FetcherOption {
	return func(opts *FetcherOptions) {
		opts.RequestTimeout = timeout
	}
}

// WithMaxBytes caps the accepted body size.
func WithMaxBytes(limit int64) FetcherOption {
	return func(opts *FetcherOptions) {
		opts.MaxBytes = limit
	}
}

// WithFileURLs toggles support for file:// addresses.
func WithFileURLs(allow bool) FetcherOption {
	return func(opts *FetcherOptions) {
		opts.AllowFileURLs = allow
	}
}

// NewFetcherOptions applies options on top of the defaults.
func NewFetcherOptions(options ...FetcherOption) FetcherOptions {
	cfg := FetcherOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	return cfg
}
