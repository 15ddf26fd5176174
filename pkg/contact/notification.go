package contact

import (
	"context"
	"sync"
)

// Variant selects how a notification is presented.
type Variant string

// VariantDestructive marks a failure notification.
// The zero Variant is a neutral/success notification.
const VariantDestructive Variant = "destructive"

// Notification texts.
const (
	TitleMisconfigured       = "Configuration Error"
	DescriptionMisconfigured = "The contact form is not properly configured. Please set the delivery credentials."
	TitleSent                = "Message Sent!"
	DescriptionSent          = "Thanks for your message! We will get back to you soon."
	TitleFailed              = "Failed to send message"
	DescriptionFailed        = "An unexpected error occurred"
)

// Notification is a transient message shown to the user.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant,omitempty"`
}

// IsDestructive reports whether the notification signals a failure.
func (n Notification) IsDestructive() bool {
	return n.Variant == VariantDestructive
}

// Notifier presents notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// Recorder is a Notifier that keeps every notification it receives.
// HTTP handlers use it to collect the toast for the response.
type Recorder struct {
	items []Notification
	mu    sync.Mutex
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Notifications returns a copy of the recorded notifications.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

func misconfiguredNotification() Notification {
	return Notification{
		Title:       TitleMisconfigured,
		Description: DescriptionMisconfigured,
		Variant:     VariantDestructive,
	}
}

func sentNotification() Notification {
	return Notification{
		Title:       TitleSent,
		Description: DescriptionSent,
	}
}

func failedNotification(de *DeliveryError) Notification {
	desc := DescriptionFailed
	if de != nil && de.Text != "" {
		desc = de.Text
	}
	return Notification{
		Title:       TitleFailed,
		Description: desc,
		Variant:     VariantDestructive,
	}
}
