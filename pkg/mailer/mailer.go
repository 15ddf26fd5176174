package mailer

import (
	"bytes"
	"context"
	"errors"
	texttemplate "text/template"
)

// Mailer renders templates and sends them through a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a Mailer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
	}
}

// SendParams describes one templated message.
type SendParams struct {
	Data     any
	Tags     Tags
	To       string
	Template string // e.g. "contact.md"

	Subject string // overrides the template Subject
	Layout  string // overrides Config.DefaultLayout
	From    string
	ReplyTo string
}

// Renderer returns the renderer used by the mailer.
func (m *Mailer) Renderer() *Renderer {
	return m.renderer
}

// Send renders params.Template and sends the result.
// Subject resolution: params.Subject, then template metadata, then
// Config.FallbackSubject. The subject is itself a text/template.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To == "" {
		return ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		if s, ok := result.Metadata["Subject"].(string); ok && s != "" {
			subject = s
		} else {
			subject = m.config.FallbackSubject
		}
	}

	subject, err = executeSubject(subject, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	return m.SendRaw(ctx, &Email{
		To:      []string{params.To},
		Subject: subject,
		HTML:    result.HTML,
		Text:    result.Text,
		From:    params.From,
		ReplyTo: params.ReplyTo,
		Tags:    params.Tags,
	})
}

// SendRaw validates and sends a prepared message.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

func executeSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
