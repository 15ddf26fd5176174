package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/contactrelay/pkg/contact"
)

// Toast renders a notification into the toast region. With oob set the
// region is swapped out-of-band, replacing any previous toast.
func Toast(n contact.Notification, oob bool) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div`)
		h.attr("id", ToastRegionID)
		h.attr("class", "toasts")
		h.raw(` aria-live="polite"`)
		if oob {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(`>`)
		toastItem(h, n)
		h.raw(`</div>`)
	})
}

// ToastRegion renders the empty region, or one holding n when present.
func ToastRegion(n *contact.Notification) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div`)
		h.attr("id", ToastRegionID)
		h.attr("class", "toasts")
		h.raw(` aria-live="polite">`)
		if n != nil {
			toastItem(h, *n)
		}
		h.raw(`</div>`)
	})
}

func toastItem(h *htmlWriter, n contact.Notification) {
	role := "status"
	if n.IsDestructive() {
		role = "alert"
	}
	h.raw(`<div`)
	h.attr("class", classes("toast", templ.KV("toast-destructive", n.IsDestructive())))
	h.attr("role", role)
	h.raw(`><p class="toast-title">`)
	h.text(n.Title)
	h.raw(`</p>`)
	if n.Description != "" {
		h.raw(`<p class="toast-description">`)
		h.text(n.Description)
		h.raw(`</p>`)
	}
	h.raw(`</div>`)
}
