package main

import (
	"context"
	"log/slog"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/contactrelay"
	"github.com/dmitrymomot/contactrelay/handlers"
	"github.com/dmitrymomot/contactrelay/middlewares"
	"github.com/dmitrymomot/contactrelay/pkg/contact"
	"github.com/dmitrymomot/contactrelay/pkg/logger"
	"github.com/dmitrymomot/contactrelay/pkg/metrics"
)

func newServeCmd(load func() (Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact page, form endpoint and JSON API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return serve(cmd.Context(), cfg, nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")

	return cmd
}

// serve runs the HTTP server until ctx ends or a signal arrives.
// onListen, when set, receives the bound address.
func serve(ctx context.Context, cfg Config, onListen func(net.Addr)) error {
	log, flush := logger.New(cfg.Logger, os.Stdout, middlewares.RequestIDExtractor())
	defer flush()

	m := metrics.New()

	d, err := newDeps(ctx, cfg, log, contact.WithObserver(m))
	if err != nil {
		return logger.Fatal(log, "startup failed", err)
	}

	app := newApp(cfg, d, m, log)

	log.Info("contact relay starting",
		slog.String("driver", d.provider),
		slog.Bool("configured", d.ctrl.Configured()),
		slog.Bool("redis", d.redis != nil),
	)

	return app.Run(cfg.Addr,
		contactrelay.WithContext(ctx),
		contactrelay.Logger(log),
		contactrelay.ShutdownTimeout(cfg.ShutdownTimeout),
		contactrelay.ShutdownHook(d.Close),
		contactrelay.OnListen(onListen),
	)
}

func newApp(cfg Config, d *deps, m *metrics.Metrics, log *slog.Logger) *contactrelay.App {
	checks := make([]contactrelay.HealthOption, 0, len(d.checks))
	for name, fn := range d.checks {
		checks = append(checks, contactrelay.WithReadinessCheck(name, fn))
	}

	return contactrelay.New(
		contactrelay.WithLogger(log),
		contactrelay.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
		),
		contactrelay.WithCookies(cfg.Cookie),
		contactrelay.WithMaxBodyBytes(cfg.MaxBodyBytes),
		contactrelay.WithErrorHandler(handlers.ErrorHandler),
		contactrelay.WithNotFoundHandler(handlers.NotFound),
		contactrelay.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		contactrelay.WithHealthChecks(checks...),
		contactrelay.WithMount(cfg.MetricsPath, m.Handler()),
		contactrelay.WithHandlers(handlers.NewContact(d.ctrl,
			handlers.WithCORS(middlewares.CORSFromConfig(cfg.CORS)...),
		)),
	)
}
