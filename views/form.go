package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/contactrelay/pkg/contact"
)

// Element IDs shared with handlers and htmx attributes.
const (
	FormID        = "contact-form"
	SubmitID      = "contact-submit"
	ToastRegionID = "toasts"
)

// FormData is the state a contact form is rendered with.
type FormData struct {
	Errors     map[string]string
	Form       contact.Form
	Submitting bool
}

type field struct {
	name        string
	label       string
	kind        string
	placeholder string
	value       string
}

// ContactForm renders the form. It replaces itself on htmx posts and falls
// back to a regular POST without JavaScript.
func ContactForm(d FormData) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		s := d.Form.Submission

		h.raw(`<form`)
		h.attr("id", FormID)
		h.attr("class", "contact-form")
		h.attr("method", "post")
		h.attr("action", "/contact")
		h.attr("hx-post", "/contact")
		h.attr("hx-target", "this")
		h.attr("hx-swap", "outerHTML")
		h.attr("hx-indicator", "#"+SubmitID)
		h.attr("hx-disabled-elt", "#"+SubmitID)
		h.raw(`>`)

		h.raw(`<input type="hidden" name="form_id"`)
		h.attr("value", d.Form.ID)
		h.raw(`>`)

		h.raw(`<div class="grid">`)
		input(h, d, field{name: contact.FieldSenderName, label: "Name", kind: "text", placeholder: "Your name", value: s.SenderName})
		input(h, d, field{name: contact.FieldSenderEmail, label: "Email", kind: "email", placeholder: "you@example.com", value: s.SenderEmail})
		h.raw(`</div>`)
		input(h, d, field{name: contact.FieldSubject, label: "Subject", kind: "text", placeholder: "What is this about?", value: s.Subject})
		textarea(h, d, field{name: contact.FieldMessage, label: "Message", placeholder: "Your message", value: s.Message})

		h.component(ctx, SubmitButton(d.Submitting))
		h.raw(`</form>`)
	})
}

// SubmitButton renders the submit button. While submitting it is disabled
// and shows the spinner with "Sending...".
func SubmitButton(submitting bool) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<button type="submit"`)
		h.attr("id", SubmitID)
		h.attr("class", classes("btn", templ.KV("htmx-request", submitting)))
		if submitting {
			h.raw(` disabled aria-busy="true"`)
		}
		h.raw(`>`)
		h.raw(`<span class="label-idle">Send Message</span>`)
		h.raw(`<span class="label-busy"><span class="spinner" aria-hidden="true"></span>Sending...</span>`)
		h.raw(`</button>`)
	})
}

func input(h *htmlWriter, d FormData, f field) {
	msg := d.Errors[f.name]
	h.raw(`<div`)
	h.attr("class", classes("field", templ.KV("has-error", msg != "")))
	h.raw(`><label`)
	h.attr("for", f.name)
	h.raw(`>`)
	h.text(f.label)
	h.raw(`</label><input`)
	h.attr("id", f.name)
	h.attr("name", f.name)
	h.attr("type", f.kind)
	h.attr("placeholder", f.placeholder)
	h.attr("value", f.value)
	h.raw(` required`)
	if d.Submitting {
		h.raw(` readonly`)
	}
	if msg != "" {
		h.raw(` aria-invalid="true"`)
	}
	h.raw(`>`)
	fieldError(h, msg)
	h.raw(`</div>`)
}

func textarea(h *htmlWriter, d FormData, f field) {
	msg := d.Errors[f.name]
	h.raw(`<div`)
	h.attr("class", classes("field", templ.KV("has-error", msg != "")))
	h.raw(`><label`)
	h.attr("for", f.name)
	h.raw(`>`)
	h.text(f.label)
	h.raw(`</label><textarea rows="6"`)
	h.attr("id", f.name)
	h.attr("name", f.name)
	h.attr("placeholder", f.placeholder)
	h.raw(` required`)
	if d.Submitting {
		h.raw(` readonly`)
	}
	if msg != "" {
		h.raw(` aria-invalid="true"`)
	}
	h.raw(`>`)
	h.text(f.value)
	h.raw(`</textarea>`)
	fieldError(h, msg)
	h.raw(`</div>`)
}

func fieldError(h *htmlWriter, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<p class="field-error">`)
	h.text(msg)
	h.raw(`</p>`)
}
