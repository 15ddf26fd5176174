package middlewares

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/contactrelay/internal"
	"github.com/dmitrymomot/contactrelay/pkg/id"
	"github.com/dmitrymomot/contactrelay/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are checked in order for an upstream request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// maxRequestIDLen caps upstream IDs copied into logs and headers.
const maxRequestIDLen = 128

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDConfig)

type requestIDConfig struct {
	generator      func() string
	responseHeader string
	headers        []string
}

// WithRequestIDHeaders sets the headers checked for an existing ID.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *requestIDConfig) {
		cfg.headers = headers
	}
}

// WithRequestIDGenerator replaces the ULID generator.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *requestIDConfig) {
		if gen != nil {
			cfg.generator = gen
		}
	}
}

// RequestID reuses an upstream request ID or generates a ULID, stores it in
// the request context, and echoes it in X-Request-ID.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &requestIDConfig{
		headers:        DefaultRequestIDHeaders,
		generator:      id.NewULID,
		responseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			var reqID string
			for _, header := range cfg.headers {
				if v := c.Header(header); v != "" && len(v) <= maxRequestIDLen {
					reqID = v
					break
				}
			}
			if reqID == "" {
				reqID = cfg.generator()
			}

			c.Set(requestIDKey{}, reqID)
			c.SetHeader(cfg.responseHeader, reqID)

			return next(c)
		}
	}
}

// GetRequestID returns the request ID or "".
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// RequestIDExtractor adds "request_id" to log records.
//
//	log, flush := logger.New(cfg, os.Stdout, middlewares.RequestIDExtractor())
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := GetRequestID(ctx); v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
