package loader

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewService creates a new loader service with optional configuration
func NewService(options ...Option) *Service {
	s := &Service{
		source:   SourceWeb,
		timeout:  30 * time.Second,
		retryMax: 3,
		logger:   zap.NewNop(),
		debug:    &noOpDebugger{},
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// WithSource sets where the schema is read from
func WithSource(source Source) Option {
	return func(s *Service) {
		s.source = source
	}
}

// WithTimeout sets the overall timeout of a download
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// WithRetryMax sets how many times a failed download is retried
func WithRetryMax(retries int) Option {
	return func(s *Service) {
		s.retryMax = retries
	}
}

// WithHTTPClient replaces the retrying client used for downloads
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.httpClient = client
	}
}

// WithLogger sets the logger of the retrying client
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDebugger sets the debugger for logging
func WithDebugger(debugger Debugger) Option {
	return func(s *Service) {
		s.debug = debugger
	}
}
