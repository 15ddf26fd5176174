package internal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/contactrelay/pkg/cookie"
	"github.com/dmitrymomot/contactrelay/pkg/health"
	"github.com/dmitrymomot/contactrelay/pkg/logger"
)

// App wires routing, middleware, and error handling.
// It is immutable after New returns.
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	cookieManager           *cookie.Manager
	maxBodyBytes            int64
	middlewares             []Middleware
	handlers                []Handler
	mounts                  []mount
}

type mount struct {
	handler http.Handler
	pattern string
}

// New creates an application from options.
func New(opts ...Option) *App {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(),
		cookieManager: cookie.New(),
		maxBodyBytes:  DefaultMaxBodyBytes,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.setupRoutes()
	return a
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	for _, m := range a.mounts {
		a.router.Mount(m.pattern, m.handler)
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath,
			health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError passes err to the error handler unless a response was started.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.LogWarn("handler error after response started", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			c.LogError("error handler failed", slog.Any("error", herr))
		}
		return
	}
	_ = defaultErrorHandler(c, err)
}

// defaultErrorHandler answers with the HTTPError code and message, as JSON
// when the client asked for it.
func defaultErrorHandler(c Context, err error) error {
	herr := AsHTTPError(err)
	if herr == nil {
		herr = ErrInternal("", WithError(err))
	}
	if herr.Code >= http.StatusInternalServerError {
		c.LogError("request failed", slog.Any("error", err), slog.Int("status", herr.Code))
	}

	if wantsJSON(c.Request()) {
		return c.JSON(herr.Code, map[string]any{
			"error":   herr.StatusText(),
			"message": herr.Message,
			"code":    herr.ErrorCode,
			"details": herr.Details,
		})
	}
	msg := herr.Message
	if msg == "" {
		msg = herr.StatusText()
	}
	return c.String(herr.Code, msg)
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath overrides "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath overrides "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
//
//	contactrelay.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn == nil {
			return
		}
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
