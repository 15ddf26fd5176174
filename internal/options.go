package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/contactrelay/pkg/cookie"
)

// Option configures the App.
type Option func(*App)

// WithMiddleware adds global middleware, applied in order.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithErrorHandler sets the handler for errors returned from handlers.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets the handler for unmatched routes.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets the handler for unsupported methods.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables /health/live and /health/ready.
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger sets the logger exposed through Context.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieManager sets the cookie manager used for flash messages.
func WithCookieManager(m *cookie.Manager) Option {
	return func(a *App) {
		if m != nil {
			a.cookieManager = m
		}
	}
}

// WithMaxBodyBytes limits request bodies read through Context.
func WithMaxBodyBytes(n int64) Option {
	return func(a *App) {
		if n > 0 {
			a.maxBodyBytes = n
		}
	}
}

// WithMount attaches a plain http.Handler, e.g. the metrics endpoint.
func WithMount(pattern string, h http.Handler) Option {
	return func(a *App) {
		if pattern != "" && h != nil {
			a.mounts = append(a.mounts, mount{pattern: pattern, handler: h})
		}
	}
}
