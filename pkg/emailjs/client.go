// Package emailjs is a contact.Deliverer backed by the EmailJS REST API.
//
// A submission is sent as template parameters of a single send request:
//
//	c := emailjs.New(emailjs.Config{BaseURL: "https://api.emailjs.com"})
//	receipt, err := c.Deliver(ctx, contact.DeliveryRequest{...})
//
// Rejections are returned as *contact.DeliveryError carrying the provider's
// reason, reduced to plain text.
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/contactrelay/pkg/contact"
	"github.com/dmitrymomot/contactrelay/pkg/sanitizer"
)

const (
	sendPath        = "/api/v1.0/email/send"
	defaultBaseURL  = "https://api.emailjs.com"
	defaultTimeout  = 15 * time.Second
	maxResponseBody = 64 << 10
	maxReasonLength = 300
)

// Client sends contact submissions through EmailJS.
type Client struct {
	http     *http.Client
	endpoint string
	cfg      Config
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client for the given configuration.
// Empty BaseURL and zero Timeout fall back to the defaults.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}

	c := &Client{
		cfg:      cfg,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + sendPath,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type sendRequest struct {
	TemplateParams map[string]string `json:"template_params"`
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
}

// Deliver implements contact.Deliverer. It makes exactly one request.
func (c *Client) Deliver(ctx context.Context, req contact.DeliveryRequest) (*contact.Receipt, error) {
	payload, err := json.Marshal(sendRequest{
		ServiceID:      req.ServiceID,
		TemplateID:     req.TemplateID,
		UserID:         req.PublicKey,
		AccessToken:    c.cfg.PrivateKey,
		TemplateParams: req.Params.Params(),
	})
	if err != nil {
		return nil, &contact.DeliveryError{Err: errors.Join(ErrEncodeRequest, err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &contact.DeliveryError{Err: errors.Join(ErrRequestFailed, err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &contact.DeliveryError{Err: errors.Join(ErrRequestFailed, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &contact.DeliveryError{Status: resp.StatusCode, Err: errors.Join(ErrRequestFailed, err)}
	}
	text := strings.TrimSpace(string(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &contact.DeliveryError{
			Status: resp.StatusCode,
			Text:   sanitizer.Truncate(sanitizer.PlainText(text), maxReasonLength),
		}
	}

	return &contact.Receipt{Status: resp.StatusCode, Text: text}, nil
}

// Healthcheck verifies the API host resolves and accepts connections.
// Any HTTP response counts as healthy.
func (c *Client) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.cfg.BaseURL, nil)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		return resp.Body.Close()
	}
}

var _ contact.Deliverer = (*Client)(nil)
