package hlvl

import (
	"github.com/goliatone/go-hlvl/internal/source/loader"
	"github.com/goliatone/go-hlvl/pkg/source"
)

// NewFetcher constructs the built-in content fetcher while keeping the
// concrete type hidden from consumers.
func NewFetcher(options ...source.FetcherOption) source.Fetcher {
	return loader.New(source.NewFetcherOptions(options...))
}
