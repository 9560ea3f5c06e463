package loader

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/source"
)

const op = "source.Fetch"

// Loader implements source.Fetcher for inline text, http(s) URLs and, when
// enabled, file URLs.
type Loader struct {
	http      *http.Client
	timeout   time.Duration
	maxBytes  int64
	allowFile bool
}

var _ source.Fetcher = (*Loader)(nil)

// New constructs a Loader from resolved options.
func New(options source.FetcherOptions) *Loader {
	client := options.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	maxBytes := options.MaxBytes
	if maxBytes <= 0 {
		maxBytes = source.DefaultMaxBytes
	}
	return &Loader{
		http:      client,
		timeout:   options.RequestTimeout,
		maxBytes:  maxBytes,
		allowFile: options.AllowFileURLs,
	}
}

// Fetch resolves the model text. Every failure is a fetch error. Content
// that is not valid UTF-8 is rejected so rendered output matches the model
// byte for byte.
func (l *Loader) Fetch(ctx context.Context, kind model.ResourceKind, content string) (string, error) {
	if ctx == nil {
		return "", model.Errorf(model.KindFetch, op, "context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", model.WrapError(model.KindFetch, op, err)
	}

	switch kind {
	case model.ResourceKindText:
		if !utf8.ValidString(content) {
			return "", model.Errorf(model.KindFetch, op, "inline content is not valid UTF-8")
		}
		return content, nil
	case model.ResourceKindURL:
		text, err := l.fetchURL(ctx, content)
		if err != nil {
			return "", model.WrapError(model.KindFetch, op, err)
		}
		return text, nil
	default:
		return "", model.Errorf(model.KindConfiguration, op, "unsupported resource type %q", kind)
	}
}

func (l *Loader) fetchURL(ctx context.Context, raw string) (string, error) {
	address := strings.TrimSpace(raw)
	if address == "" {
		return "", errors.New("url is required")
	}
	parsed, err := url.Parse(address)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		if parsed.Host == "" {
			return "", errors.New("url " + address + " has no host")
		}
		return loadHTTP(ctx, l.http, parsed.String(), l.timeout, l.maxBytes)
	case "file":
		if !l.allowFile {
			return "", errors.New("file urls are disabled")
		}
		return loadFile(ctx, parsed, l.maxBytes)
	case "":
		return "", errors.New("url " + address + " has no scheme")
	default:
		return "", errors.New("unsupported url scheme " + parsed.Scheme)
	}
}
