package contact

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/contactrelay/pkg/cache"
	"github.com/dmitrymomot/contactrelay/pkg/logger"
)

// DefaultStateTTL bounds how long a form can stay in the submitting state
// if the deferred reset never runs (process crash with a shared Redis store).
const DefaultStateTTL = 2 * time.Minute

// Observer receives submission measurements.
// Implemented by pkg/metrics.
type Observer interface {
	ObserveSubmission(outcome Outcome)
	ObserveDelivery(d time.Duration, err error)
}

// Controller handles contact form submissions.
// It checks configuration, relays the submission through a Deliverer and
// reports the result through a Notifier.
type Controller struct {
	deliverer Deliverer
	state     cache.Cache[bool]
	observer  Observer
	logger    *slog.Logger
	cfg       Config
	stateTTL  time.Duration
	ownsState bool
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStateStore sets the store for the per-form submitting flag.
// Defaults to an in-memory cache.
func WithStateStore(s cache.Cache[bool]) Option {
	return func(c *Controller) {
		if s != nil {
			c.state = s
		}
	}
}

// WithStateTTL sets the expiry of the submitting flag.
func WithStateTTL(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.stateTTL = d
		}
	}
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// NewController creates a controller for the given relay configuration.
//
// Example:
//
//	ctrl := contact.NewController(cfg.Contact, emailjs.New(cfg.EmailJS),
//	    contact.WithLogger(log),
//	    contact.WithStateStore(cache.NewRedis[bool](rdb, nil, cache.WithPrefix("contact"))),
//	)
func NewController(cfg Config, d Deliverer, opts ...Option) *Controller {
	c := &Controller{
		cfg:       cfg,
		deliverer: d,
		logger:    logger.NewNope(),
		stateTTL:  DefaultStateTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.state == nil {
		c.state = cache.NewMemory[bool](cache.WithDefaultTTL(c.stateTTL))
		c.ownsState = true
	}
	return c
}

// Close releases the default in-memory state store.
// A store passed with WithStateStore is left to its owner.
func (c *Controller) Close() error {
	if !c.ownsState {
		return nil
	}
	return c.state.Close()
}

// Configured reports whether the delivery credentials are set.
func (c *Controller) Configured() bool {
	return c.cfg.Configured()
}

// Healthcheck reports ErrNotConfigured while credentials are missing.
func (c *Controller) Healthcheck() func(context.Context) error {
	return func(context.Context) error {
		if !c.Configured() {
			return ErrNotConfigured
		}
		return nil
	}
}

// IsSubmitting reports whether the form with the given id is being delivered.
func (c *Controller) IsSubmitting(ctx context.Context, formID string) bool {
	if formID == "" {
		return false
	}
	ok, err := c.state.Get(ctx, formID)
	if err != nil {
		return false
	}
	return ok
}

// HandleSubmit relays a submitted form.
//
// A nil form aborts without notifying the user. Missing credentials raise a
// configuration notification and skip delivery. Otherwise exactly one delivery
// call is made; on success the form is reset. The submitting flag is cleared
// on every path once it has been set.
func (c *Controller) HandleSubmit(ctx context.Context, form *Form, n Notifier) Outcome {
	if n == nil {
		n = NotifierFunc(func(context.Context, Notification) {})
	}

	if form == nil {
		c.logger.ErrorContext(ctx, "form reference is not set")
		return c.done(ctx, OutcomeAborted, "")
	}

	if !c.cfg.Configured() {
		c.logger.WarnContext(ctx, "contact delivery is not configured",
			slog.Bool("service_id", c.cfg.ServiceID != ""),
			slog.Bool("template_id", c.cfg.TemplateID != ""),
			slog.Bool("public_key", c.cfg.PublicKey != ""),
		)
		n.Notify(ctx, misconfiguredNotification())
		return c.done(ctx, OutcomeMisconfigured, form.ID)
	}

	if form.ID == "" {
		form.ID = uuid.NewString()
	}

	if c.IsSubmitting(ctx, form.ID) {
		return c.done(ctx, OutcomeBusy, form.ID)
	}

	c.setSubmitting(ctx, form.ID, true)
	defer c.setSubmitting(context.WithoutCancel(ctx), form.ID, false)

	start := time.Now()
	receipt, err := c.deliverer.Deliver(ctx, DeliveryRequest{
		ServiceID:  c.cfg.ServiceID,
		TemplateID: c.cfg.TemplateID,
		PublicKey:  c.cfg.PublicKey,
		Params:     form.Submission,
	})
	if c.observer != nil {
		c.observer.ObserveDelivery(time.Since(start), err)
	}

	if err != nil {
		de := AsDeliveryError(err)
		c.logger.ErrorContext(ctx, "contact delivery failed",
			slog.String("form_id", form.ID),
			slog.Int("status", de.Status),
			slog.Any("error", err),
		)
		n.Notify(ctx, failedNotification(de))
		return c.done(ctx, OutcomeFailed, form.ID)
	}

	attrs := []any{slog.String("form_id", form.ID)}
	if receipt != nil {
		attrs = append(attrs, slog.Int("status", receipt.Status), slog.String("response", receipt.Text))
	}
	c.logger.InfoContext(ctx, "contact delivery succeeded", attrs...)

	form.Reset()
	n.Notify(ctx, sentNotification())
	return c.done(ctx, OutcomeSent, form.ID)
}

func (c *Controller) done(ctx context.Context, o Outcome, formID string) Outcome {
	c.logger.DebugContext(ctx, "contact submission",
		slog.String("outcome", o.String()),
		slog.String("form_id", formID),
	)
	if c.observer != nil {
		c.observer.ObserveSubmission(o)
	}
	return o
}

func (c *Controller) setSubmitting(ctx context.Context, formID string, v bool) {
	if formID == "" {
		return
	}

	var err error
	if v {
		err = c.state.Set(ctx, formID, true, c.stateTTL)
	} else {
		err = c.state.Delete(ctx, formID)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "failed to update submitting state",
			slog.String("form_id", formID),
			slog.Bool("submitting", v),
			slog.Any("error", err),
		)
	}
}
