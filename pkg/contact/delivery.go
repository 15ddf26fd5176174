package contact

import (
	"context"
	"errors"
	"fmt"
)

// Deliverer relays a submission to an email delivery service.
// Implementations make exactly one attempt per call.
type Deliverer interface {
	// Deliver sends the request. A non-nil error means the provider rejected
	// the message or could not be reached. Returning *DeliveryError lets the
	// caller surface the provider's text to the user.
	Deliver(ctx context.Context, req DeliveryRequest) (*Receipt, error)
}

// DelivererFunc adapts a function to the Deliverer interface.
type DelivererFunc func(ctx context.Context, req DeliveryRequest) (*Receipt, error)

// Deliver implements Deliverer.
func (f DelivererFunc) Deliver(ctx context.Context, req DeliveryRequest) (*Receipt, error) {
	return f(ctx, req)
}

// DeliveryRequest is a single outbound delivery.
type DeliveryRequest struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Params     Submission
}

// Receipt is a successful delivery response.
type Receipt struct {
	Text   string
	Status int
}

// DeliveryError is a rejected delivery.
// Text is the provider's human-readable reason; empty means none was given.
type DeliveryError struct {
	Err    error
	Text   string
	Status int
}

func (e *DeliveryError) Error() string {
	switch {
	case e.Text != "" && e.Status != 0:
		return fmt.Sprintf("delivery rejected (%d): %s", e.Status, e.Text)
	case e.Text != "":
		return "delivery rejected: " + e.Text
	case e.Err != nil:
		return "delivery failed: " + e.Err.Error()
	case e.Status != 0:
		return fmt.Sprintf("delivery rejected (%d)", e.Status)
	default:
		return "delivery failed"
	}
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// AsDeliveryError extracts a DeliveryError from err.
// Errors of any other type are wrapped into one with no text.
func AsDeliveryError(err error) *DeliveryError {
	if err == nil {
		return nil
	}
	var de *DeliveryError
	if errors.As(err, &de) {
		return de
	}
	return &DeliveryError{Err: err}
}
