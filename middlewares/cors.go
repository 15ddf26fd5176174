package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/contactrelay/internal"
)

// DefaultCORSMaxAge is the default preflight cache duration.
const DefaultCORSMaxAge = 12 * time.Hour

// CORSConfig holds the env-driven CORS settings for the JSON API.
type CORSConfig struct {
	AllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxAge       time.Duration `env:"CORS_MAX_AGE" envDefault:"12h"`
}

// CORSOption configures CORS.
type CORSOption func(*corsConfig)

type corsConfig struct {
	allowOriginFunc func(origin string) bool
	allowOrigins    []string
	allowMethods    []string
	allowHeaders    []string
	maxAge          time.Duration
}

// WithAllowOrigins sets the allowed origins. "*" allows any origin.
func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *corsConfig) {
		cfg.allowOrigins = origins
	}
}

// WithAllowOriginFunc overrides the origin list with a predicate.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *corsConfig) {
		cfg.allowOriginFunc = fn
	}
}

// WithAllowHeaders sets the allowed request headers.
func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *corsConfig) {
		cfg.allowHeaders = headers
	}
}

// WithMaxAge sets the preflight cache duration.
func WithMaxAge(d time.Duration) CORSOption {
	return func(cfg *corsConfig) {
		cfg.maxAge = d
	}
}

// CORSFromConfig builds CORS options from a parsed CORSConfig.
func CORSFromConfig(c CORSConfig) []CORSOption {
	opts := []CORSOption{WithMaxAge(c.MaxAge)}
	if len(c.AllowOrigins) > 0 {
		opts = append(opts, WithAllowOrigins(c.AllowOrigins...))
	}
	return opts
}

// CORS lets browsers on other origins post to the JSON API.
// Preflight requests are answered with 204 and never reach the handler.
// Credentials are not supported: the API is public.
func CORS(opts ...CORSOption) internal.Middleware {
	cfg := &corsConfig{
		allowOrigins: []string{"*"},
		allowMethods: []string{http.MethodPost, http.MethodOptions},
		allowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		maxAge:       DefaultCORSMaxAge,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	allowMethods := strings.Join(cfg.allowMethods, ", ")
	allowHeaders := strings.Join(cfg.allowHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.maxAge.Seconds()))
	wildcard := slices.Contains(cfg.allowOrigins, "*")

	allowed := func(origin string) bool {
		if cfg.allowOriginFunc != nil {
			return cfg.allowOriginFunc(origin)
		}
		return wildcard || slices.Contains(cfg.allowOrigins, origin)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			origin := c.Header("Origin")
			if origin == "" || !allowed(origin) {
				return next(c)
			}

			h := c.Response().Header()
			h.Add("Vary", "Origin")
			if wildcard && cfg.allowOriginFunc == nil {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")

			if c.Request().Method != http.MethodOptions {
				return next(c)
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			if cfg.maxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
}
