package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/contactrelay/pkg/contact"
	"github.com/dmitrymomot/contactrelay/pkg/logger"
)

// ErrNotSent is returned by send when the message was not delivered.
var ErrNotSent = errors.New("message not sent")

func newSendCmd(load func() (Config, error)) *cobra.Command {
	var s contact.Submission

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit one message through the configured provider and print the notification.",
		Long: "Submit one message through the same controller the web form uses.\n" +
			"Pass --message - to read the message body from stdin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if s.Message == "-" {
				body, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				s.Message = string(body)
			}
			return send(cmd.Context(), cfg, s, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&s.SenderName, "name", "", "sender name")
	f.StringVar(&s.SenderEmail, "email", "", "sender email")
	f.StringVar(&s.Subject, "subject", "", "message subject")
	f.StringVar(&s.Message, "message", "", "message body, or - for stdin")

	return cmd
}

// send relays s once and writes every notification to out.
func send(ctx context.Context, cfg Config, s contact.Submission, out io.Writer) error {
	log, flush := logger.New(cfg.Logger, os.Stderr)
	defer flush()

	if err := s.Validate(); err != nil {
		for field, msg := range contact.FieldErrors(err) {
			fmt.Fprintf(out, "%s: %s\n", field, msg)
		}
		return err
	}

	d, err := newDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close(context.WithoutCancel(ctx)) }()

	printer := contact.NotifierFunc(func(_ context.Context, n contact.Notification) {
		fmt.Fprintln(out, formatNotification(n))
	})

	if outcome := d.ctrl.HandleSubmit(ctx, &contact.Form{Submission: s}, printer); outcome != contact.OutcomeSent {
		return fmt.Errorf("%w: %s", ErrNotSent, outcome)
	}
	return nil
}

func formatNotification(n contact.Notification) string {
	var b strings.Builder
	if n.IsDestructive() {
		b.WriteString("error: ")
	}
	b.WriteString(n.Title)
	if n.Description != "" {
		b.WriteString(" - ")
		b.WriteString(n.Description)
	}
	return b.String()
}
