// Package logger builds slog loggers for the service.
//
// Records go to a JSON (or text) handler on the given writer. When a Sentry
// DSN is configured, warnings and errors are also forwarded to Sentry, and
// errors open Sentry issues. Context extractors add request-scoped attributes
// such as the request id to every record:
//
//	log, flush := logger.New(cfg.Log, os.Stdout, middlewares.RequestIDExtractor())
//	defer flush()
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

const sentryFlushTimeout = 2 * time.Second

// Config holds logger configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Sentry SentryConfig
}

// SentryConfig enables error forwarding to Sentry.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// ErrorsOnly forwards only error records as logs; warnings are kept local.
	ErrorsOnly bool `env:"SENTRY_ERRORS_ONLY"`
}

// ParseLevel converts a level name to slog.Level.
// Unknown names fall back to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// New creates a logger writing to w. The returned func flushes buffered
// Sentry events and must be called before exit.
func New(cfg Config, w io.Writer, extractors ...ContextExtractor) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var local slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		local = slog.NewTextHandler(w, opts)
	} else {
		local = slog.NewJSONHandler(w, opts)
	}

	if cfg.Sentry.DSN == "" {
		return slog.New(newContextHandler(local, extractors...)), func() {}
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		EnableLogs:  true,
	}); err != nil {
		l := slog.New(newContextHandler(local, extractors...))
		l.Error("failed to initialize sentry", slog.String("error", err.Error()))
		return l, func() {}
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.Sentry.ErrorsOnly {
		logLevels = []slog.Level{slog.LevelError}
	}
	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	h := newContextHandler(newMultiHandler(local, remote), extractors...)
	return slog.New(h), func() { sentry.Flush(sentryFlushTimeout) }
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Fatal logs err and returns it wrapped with msg, for use in command entrypoints.
func Fatal(l *slog.Logger, msg string, err error) error {
	l.Error(msg, slog.Any("error", err))
	return fmt.Errorf("%s: %w", msg, err)
}
