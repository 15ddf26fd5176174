// Package resend implements mailer.Sender with the Resend API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/contactrelay/pkg/mailer"
)

// ErrSendFailed wraps errors returned by the Resend API.
var ErrSendFailed = errors.New("resend: failed to send email")

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// NewWithClient creates a sender around an existing client.
// Tests use it to point the client at a local server.
func NewWithClient(client *resend.Client, cfg Config) *Sender {
	return &Sender{client: client, config: cfg}
}

// Send implements mailer.Sender.
// API failures are returned as *mailer.ProviderError.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	req := &resend.SendEmailRequest{
		From:    s.from(email.From),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Cc:      email.CC,
		Bcc:     email.BCC,
		Headers: email.Headers,
		Tags:    convertTags(email.Tags),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return &mailer.ProviderError{Message: err.Error(), Err: errors.Join(ErrSendFailed, err)}
	}
	return nil
}

func (s *Sender) from(override string) string {
	if override != "" {
		return override
	}
	return mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
}

// convertTags returns tags sorted by name so requests are deterministic.
func convertTags(tags mailer.Tags) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]resend.Tag, 0, len(tags))
	for _, name := range names {
		result = append(result, resend.Tag{Name: name, Value: tagValue(tags[name])})
	}
	return result
}

// tagValue renders a tag value. Presence-only tags become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
