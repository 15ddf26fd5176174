package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/contactrelay/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverOption configures Recover.
type RecoverOption func(*recoverConfig)

type recoverConfig struct {
	stackSize    int
	disableStack bool
}

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *recoverConfig) {
		if size > 0 {
			cfg.stackSize = size
		}
	}
}

// WithRecoverDisablePrintStack omits stack traces from logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *recoverConfig) {
		cfg.disableStack = true
	}
}

// Recover turns handler panics into a *PanicError for the app's error handler.
// The panic is logged with the request's logger, so a configured Sentry
// handler receives it too.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &recoverConfig{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				pe := &PanicError{Value: r}
				if cfg.disableStack {
					c.LogError("panic recovered", "panic", r)
				} else {
					pe.Stack = make([]byte, cfg.stackSize)
					pe.Stack = pe.Stack[:runtime.Stack(pe.Stack, false)]
					c.LogError("panic recovered", "panic", r, "stack", string(pe.Stack))
				}
				err = pe
			}()

			return next(c)
		}
	}
}
