package loader

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
)

func loadFile(ctx context.Context, address *url.URL, maxBytes int64) (string, error) {
	path := address.Path
	if path == "" {
		path = address.Opaque
	}
	if path == "" {
		return "", errors.New("file url has no path")
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	f, err := os.Open(filepath.Clean(filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	return readLines(f, maxBytes)
}
