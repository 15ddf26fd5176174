// Package mailrelay is a contact.Deliverer that sends submissions as email
// through pkg/mailer, for deployments with their own provider account.
//
// The template id selects "<id>.md" from the template set and falls back to
// the built-in contact.md. The service id is attached as a provider tag.
// Messages go to the configured inbox with Reply-To set to the sender.
package mailrelay

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrymomot/contactrelay/pkg/contact"
	"github.com/dmitrymomot/contactrelay/pkg/mailer"
	"github.com/dmitrymomot/contactrelay/pkg/sanitizer"
)

// DefaultTemplate is used when no template matches the template id.
const DefaultTemplate = "contact.md"

//go:embed templates
var embedded embed.FS

// ErrNoInbox indicates the relay has no destination address.
var ErrNoInbox = errors.New("mailrelay: inbox address is not set")

// Config holds relay configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Inbox       string `env:"MAIL_RELAY_INBOX"`
	TemplateDir string `env:"MAIL_RELAY_TEMPLATE_DIR"`
}

// Templates returns the template set for cfg: TemplateDir when set,
// otherwise the built-in templates.
func Templates(cfg Config) fs.FS {
	if cfg.TemplateDir != "" {
		return os.DirFS(cfg.TemplateDir)
	}
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("mailrelay: embedded templates: %v", err))
	}
	return sub
}

// NewRenderer creates a renderer over the template set whose HTML output is
// sanitized.
func NewRenderer(cfg Config) *mailer.Renderer {
	return mailer.NewRenderer(Templates(cfg), mailer.WithContentFilter(sanitizer.EmailHTML))
}

// Deliverer relays submissions by email.
type Deliverer struct {
	mailer *mailer.Mailer
	cfg    Config
}

// New creates a Deliverer sending through m.
func New(m *mailer.Mailer, cfg Config) (*Deliverer, error) {
	if strings.TrimSpace(cfg.Inbox) == "" {
		return nil, ErrNoInbox
	}
	return &Deliverer{mailer: m, cfg: cfg}, nil
}

// templateData is exposed to templates.
type templateData struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	ServiceID string
}

// Deliver implements contact.Deliverer.
func (d *Deliverer) Deliver(ctx context.Context, req contact.DeliveryRequest) (*contact.Receipt, error) {
	tmpl := DefaultTemplate
	if name := req.TemplateID + ".md"; req.TemplateID != "" && d.mailer.Renderer().Has(name) {
		tmpl = name
	}

	tags := mailer.Tags{"source": "contact-form"}
	if req.ServiceID != "" {
		tags["service"] = req.ServiceID
	}

	err := d.mailer.Send(ctx, mailer.SendParams{
		To:       d.cfg.Inbox,
		Template: tmpl,
		ReplyTo:  mailer.Recipient(req.Params.SenderName, req.Params.SenderEmail),
		Tags:     tags,
		Data: templateData{
			Name:      req.Params.SenderName,
			Email:     req.Params.SenderEmail,
			Subject:   req.Params.Subject,
			Message:   req.Params.Message,
			ServiceID: req.ServiceID,
		},
	})
	if err != nil {
		de := &contact.DeliveryError{Err: err}
		var pe *mailer.ProviderError
		if errors.As(err, &pe) {
			de.Text = sanitizer.PlainText(pe.Message)
		}
		return nil, de
	}

	return &contact.Receipt{Text: "OK"}, nil
}

var _ contact.Deliverer = (*Deliverer)(nil)
