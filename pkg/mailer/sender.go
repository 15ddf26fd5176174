package mailer

import "context"

// Sender is implemented by email providers.
type Sender interface {
	// Send delivers a fully prepared message.
	// The Email must have To, Subject and HTML set.
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
