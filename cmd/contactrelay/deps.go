package main

import (
	"context"
	"errors"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/contactrelay/pkg/cache"
	"github.com/dmitrymomot/contactrelay/pkg/contact"
	"github.com/dmitrymomot/contactrelay/pkg/emailjs"
	"github.com/dmitrymomot/contactrelay/pkg/health"
	"github.com/dmitrymomot/contactrelay/pkg/mailer"
	"github.com/dmitrymomot/contactrelay/pkg/mailer/resend"
	"github.com/dmitrymomot/contactrelay/pkg/mailrelay"
	"github.com/dmitrymomot/contactrelay/pkg/redis"
)

// stateKeyPrefix namespaces submitting flags in a shared Redis.
const stateKeyPrefix = "contactrelay:submitting"

// deps holds the wired services and their cleanup.
type deps struct {
	ctrl     *contact.Controller
	redis    goredis.UniversalClient
	checks   health.Checks
	closers  []func(context.Context) error
	provider string
}

// Close runs cleanups in reverse order.
func (d *deps) Close(ctx context.Context) error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newDeliverer builds the Deliverer selected by cfg.Driver.
// The returned check reports provider reachability, or nil when the
// driver has none.
func newDeliverer(cfg Config) (contact.Deliverer, health.CheckFunc, error) {
	switch cfg.Driver {
	case DriverEmailJS:
		client, err := emailjs.New(cfg.EmailJS)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Healthcheck(), nil

	case DriverResend:
		m := mailer.New(resend.New(cfg.Resend), mailrelay.NewRenderer(cfg.MailRelay), cfg.Mailer)
		d, err := mailrelay.New(m, cfg.MailRelay)
		if err != nil {
			return nil, nil, err
		}
		return d, nil, nil

	default:
		return nil, nil, ErrUnknownDriver
	}
}

// newDeps wires the controller with its state store and delivery client.
func newDeps(ctx context.Context, cfg Config, log *slog.Logger, opts ...contact.Option) (*deps, error) {
	d := &deps{
		provider: cfg.Driver,
		checks:   health.Checks{},
	}

	deliverer, providerCheck, err := newDeliverer(cfg)
	if err != nil {
		return nil, err
	}
	if providerCheck != nil {
		d.checks["provider"] = providerCheck
	}

	opts = append(opts, contact.WithLogger(log), contact.WithStateTTL(cfg.StateTTL))

	if cfg.Redis.URL != "" {
		client, err := redis.Open(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		d.redis = client
		d.closers = append(d.closers, func(context.Context) error { return client.Close() })
		d.checks["redis"] = redis.Healthcheck(client)

		state := cache.NewRedis[bool](client, nil,
			cache.WithPrefix(stateKeyPrefix),
			cache.WithRedisDefaultTTL(cfg.StateTTL),
		)
		opts = append(opts, contact.WithStateStore(state))
		log.Info("submission state stored in redis")
	}

	d.ctrl = contact.NewController(cfg.Contact, deliverer, opts...)
	d.closers = append(d.closers, func(context.Context) error { return d.ctrl.Close() })
	d.checks["delivery"] = d.ctrl.Healthcheck()

	if !d.ctrl.Configured() {
		log.Warn("contact relay is not configured; submissions will show a configuration error",
			slog.String("driver", cfg.Driver))
	}

	return d, nil
}
