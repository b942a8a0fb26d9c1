package source

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/alexanderramin/estimo/internal/domain"
)

// PublishedSource fetches the canonical dataset. Every call must return
// fresh data; implementations do not cache.
type PublishedSource interface {
	Fetch(ctx context.Context) (domain.Dataset, error)
}

// FileSource reads the published document from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return DecodeDocument(data, FormatFor(s.Path))
}

// OpenOptions carries settings for the sources that need them.
type OpenOptions struct {
	HTTP HTTPConfig
	S3   S3Config
}

// Open picks a PublishedSource from a location: http(s) URLs, s3://bucket/key,
// or a filesystem path.
func Open(ctx context.Context, location string, opts OpenOptions) (PublishedSource, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		cfg := opts.HTTP
		cfg.URL = location
		return NewHTTPSource(cfg), nil
	case strings.HasPrefix(location, "s3://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parsing s3 location: %w", err)
		}
		cfg := opts.S3
		cfg.Bucket = u.Host
		cfg.Key = strings.TrimPrefix(u.Path, "/")
		return NewS3Source(ctx, cfg)
	case location == "":
		return nil, fmt.Errorf("published location is required")
	default:
		return FileSource{Path: location}, nil
	}
}
