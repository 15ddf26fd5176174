package htmx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Renderable is implemented by templ components.
type Renderable interface {
	Render(ctx context.Context, w io.Writer) error
}

// Config collects response headers and out-of-band components for an HTMX
// response.
type Config struct {
	triggers      []trigger
	settleTrigger []trigger

	OOBComponents []Renderable
	Retarget      string
	Reswap        SwapStrategy
	Reselect      string
	PushURL       string
	Refresh       bool
}

type trigger struct {
	detail any
	name   string
}

// RenderOption configures a Config.
type RenderOption func(*Config)

// NewConfig builds a Config from opts.
func NewConfig(opts ...RenderOption) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ApplyHeaders writes the HX-* headers. It must run before the body is written.
func (c *Config) ApplyHeaders(w http.ResponseWriter) error {
	if c == nil {
		return nil
	}

	h := w.Header()
	if c.Retarget != "" {
		h.Set(HeaderHXRetarget, c.Retarget)
	}
	if c.Reswap != "" {
		h.Set(HeaderHXReswap, string(c.Reswap))
	}
	if c.Reselect != "" {
		h.Set(HeaderHXReselect, c.Reselect)
	}
	if c.PushURL != "" {
		h.Set(HeaderHXPushURL, c.PushURL)
	}
	if c.Refresh {
		h.Set(HeaderHXRefresh, "true")
	}

	if err := setTriggers(h, HeaderHXTrigger, c.triggers); err != nil {
		return err
	}
	return setTriggers(h, HeaderHXTriggerAfterSettle, c.settleTrigger)
}

// RenderOOB writes the out-of-band components after the main content.
func (c *Config) RenderOOB(ctx context.Context, w io.Writer) error {
	if c == nil {
		return nil
	}
	for _, comp := range c.OOBComponents {
		if err := comp.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// setTriggers writes plain event names as a comma list, or a JSON object
// when any event carries a detail.
func setTriggers(h http.Header, header string, triggers []trigger) error {
	if len(triggers) == 0 {
		return nil
	}

	withDetail := false
	names := make([]string, 0, len(triggers))
	for _, t := range triggers {
		names = append(names, t.name)
		if t.detail != nil {
			withDetail = true
		}
	}
	if !withDetail {
		h.Set(header, strings.Join(names, ", "))
		return nil
	}

	events := make(map[string]any, len(triggers))
	for _, t := range triggers {
		events[t.name] = t.detail
	}
	b, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("htmx: encode %s: %w", header, err)
	}
	h.Set(header, string(b))
	return nil
}

// WithOOB appends out-of-band components.
func WithOOB(components ...Renderable) RenderOption {
	return func(c *Config) {
		c.OOBComponents = append(c.OOBComponents, components...)
	}
}

// WithRetarget sets HX-Retarget.
func WithRetarget(selector string) RenderOption {
	return func(c *Config) {
		c.Retarget = selector
	}
}

// WithReswap sets HX-Reswap.
func WithReswap(strategy SwapStrategy) RenderOption {
	return func(c *Config) {
		c.Reswap = strategy
	}
}

// WithReselect sets HX-Reselect.
func WithReselect(selector string) RenderOption {
	return func(c *Config) {
		c.Reselect = selector
	}
}

// WithPushURL sets HX-Push-Url.
func WithPushURL(url string) RenderOption {
	return func(c *Config) {
		c.PushURL = url
	}
}

// WithRefresh asks the client to reload the page.
func WithRefresh() RenderOption {
	return func(c *Config) {
		c.Refresh = true
	}
}

// WithTrigger fires client-side events without detail.
func WithTrigger(events ...string) RenderOption {
	return func(c *Config) {
		for _, e := range events {
			c.triggers = append(c.triggers, trigger{name: e})
		}
	}
}

// WithTriggerDetail fires a client-side event carrying detail as JSON.
func WithTriggerDetail(event string, detail any) RenderOption {
	return func(c *Config) {
		c.triggers = append(c.triggers, trigger{name: event, detail: detail})
	}
}

// WithTriggerAfterSettle fires events after the swap has settled.
func WithTriggerAfterSettle(events ...string) RenderOption {
	return func(c *Config) {
		for _, e := range events {
			c.settleTrigger = append(c.settleTrigger, trigger{name: e})
		}
	}
}
