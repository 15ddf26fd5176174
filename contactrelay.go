package contactrelay

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/contactrelay/internal"
	"github.com/dmitrymomot/contactrelay/pkg/cookie"
	"github.com/dmitrymomot/contactrelay/pkg/health"
)

// Type aliases - public API
type (
	// App wires routing, middleware, and error handling.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health endpoints.
	HealthOption = internal.HealthOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	// HTTPError carries a status and user-facing message.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ResponseWriter wraps http.ResponseWriter with hooks and HTMX support.
	ResponseWriter = internal.ResponseWriter
)

// New creates an application.
//
// Example:
//
//	app := contactrelay.New(
//	    contactrelay.WithLogger(log),
//	    contactrelay.WithHandlers(handlers.NewContact(ctrl)),
//	)
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithMiddleware adds global middleware, applied in order.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers route handlers.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithErrorHandler sets the handler for errors returned from handlers.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets the handler for unmatched routes.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets the handler for unsupported methods.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables /health/live and /health/ready.
//
// Example:
//
//	contactrelay.WithHealthChecks(
//	    contactrelay.WithReadinessCheck("delivery", ctrl.Healthcheck()),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithCookies enables flash messages with an encrypted cookie manager.
// Without a secret flashes are disabled and handlers render directly.
func WithCookies(cfg cookie.Config, opts ...cookie.Option) Option {
	return internal.WithCookieManager(cookie.FromConfig(cfg, opts...))
}

// WithMaxBodyBytes limits request bodies. Defaults to 64KB.
func WithMaxBodyBytes(n int64) Option {
	return internal.WithMaxBodyBytes(n)
}

// WithMount attaches a plain http.Handler at pattern.
func WithMount(pattern string, h http.Handler) Option {
	return internal.WithMount(pattern, h)
}

// Health options

// WithLivenessPath overrides "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath overrides "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown. Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server starts listening.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers cleanup run after the server drains.
//
//	contactrelay.ShutdownHook(func(context.Context) error { return client.Close() })
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context. Cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// OnListen is called with the bound address once listening.
func OnListen(fn func(net.Addr)) RunOption {
	return internal.OnListen(fn)
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Errors

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// AsHTTPError extracts an HTTPError from err, or returns nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

var (
	ErrBadRequest       = internal.ErrBadRequest
	ErrNotFound         = internal.ErrNotFound
	ErrMethodNotAllowed = internal.ErrMethodNotAllowed
	ErrRequestTooLarge  = internal.ErrRequestTooLarge
	ErrUnprocessable    = internal.ErrUnprocessable
	ErrInternal         = internal.ErrInternal

	WithTitle     = internal.WithTitle
	WithErrorCode = internal.WithErrorCode
	WithDetails   = internal.WithDetails
	WithError     = internal.WithError

	ErrMalformedJSON = internal.ErrMalformedJSON
	ErrBodyTooLarge  = internal.ErrBodyTooLarge
)
