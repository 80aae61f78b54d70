// Package loader reads the schema document from a file or a URL.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// ParseSource validates a source kind given on the command line.
func ParseSource(kind string) (Source, error) {
	switch Source(kind) {
	case SourceFile, SourceWeb:
		return Source(kind), nil
	}
	return "", fmt.Errorf("invalid schema source %q, expected %q or %q", kind, SourceFile, SourceWeb)
}

// Source returns the configured source kind.
func (s *Service) Source() Source {
	return s.source
}

// Load returns the schema document at location.
func (s *Service) Load(ctx context.Context, location string) ([]byte, error) {
	switch s.source {
	case SourceFile:
		return s.loadFile(location)
	case SourceWeb:
		return s.loadWeb(ctx, location)
	}
	return nil, fmt.Errorf("invalid schema source %q", s.source)
}

func (s *Service) loadFile(path string) ([]byte, error) {
	s.debug.Printf("reading schema from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return data, nil
}

func (s *Service) loadWeb(ctx context.Context, url string) ([]byte, error) {
	s.debug.Printf("downloading schema from %s", url)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download schema %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download schema %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema body %s: %w", url, err)
	}
	s.debug.Printf("downloaded %d bytes", len(data))

	return data, nil
}

func (s *Service) client() *http.Client {
	if s.httpClient != nil {
		return s.httpClient
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Transport = cleanhttp.DefaultPooledTransport()
	retryClient.RetryMax = s.retryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(LeveledZap{inner: s.logger.Sugar().With("subsystem", "schema-download")})

	return retryClient.StandardClient()
}

// LeveledZap adapts a zap logger to the retrying client.
type LeveledZap struct {
	inner *zap.SugaredLogger
}

// re-writes HTTP client ERROR to WARN level (because of retries)
func (l LeveledZap) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l LeveledZap) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l LeveledZap) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Infow(msg, keysAndValues...)
}

func (l LeveledZap) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Debugw(msg, keysAndValues...)
}
