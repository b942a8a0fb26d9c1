package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/estimo/internal/domain"
)

// HTTPConfig configures the HTTP published source.
type HTTPConfig struct {
	URL        string
	TimeoutMs  int
	MaxRetries int
}

// DefaultHTTPConfig returns an HTTPConfig with sensible defaults.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		TimeoutMs:  10000,
		MaxRetries: 1,
	}
}

// HTTPSource fetches the published document over HTTP, bypassing caches.
type HTTPSource struct {
	cfg  HTTPConfig
	http *http.Client
}

// NewHTTPSource creates a source that GETs cfg.URL.
func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultHTTPConfig().TimeoutMs
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &HTTPSource{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				// Compressed intermediaries sometimes serve stale bodies;
				// ask for identity so the origin answers.
				DisableCompression: true,
			},
		},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (domain.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + s.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		body, format, err := s.doRequest(ctx)
		if err == nil {
			return DecodeDocument(body, format)
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, ErrTimeout)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (s *HTTPSource) doRequest(ctx context.Context) ([]byte, Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("published source returned status %d", resp.StatusCode)
	}

	format := FormatFor(req.URL.Path)
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		format = FormatYAML
	}
	return body, format, nil
}
