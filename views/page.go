package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/contactrelay/pkg/contact"
)

// HTMXScript is the htmx build loaded by every page.
const HTMXScript = "https://unpkg.com/htmx.org@2.0.4"

// PageData is everything the contact page needs.
type PageData struct {
	Toast *contact.Notification
	Form  FormData
	Title string
}

// Page renders the full contact page: a card with the form and the toast region.
func Page(d PageData) templ.Component {
	title := d.Title
	if title == "" {
		title = "Contact Us"
	}
	return Layout(title, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<main class="container"><section class="card"><header><h1>`)
		h.text(title)
		h.raw(`</h1><p class="muted">Send us a message and we will reply by email.</p></header>`)
		h.component(ctx, ContactForm(d.Form))
		h.raw(`</section></main>`)
		h.component(ctx, ToastRegion(d.Toast))
	}))
}

// ErrorPage renders a minimal full page for failed requests.
func ErrorPage(code int, title, message string) templ.Component {
	return Layout(title, component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<main class="container"><section class="card"><h1>`)
		h.text(strconv.Itoa(code) + " " + title)
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p><p><a href="/">Back to the contact form</a></p></section></main>`)
	}))
}

// Layout wraps body in the HTML document shell.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><script`)
		h.attr("src", HTMXScript)
		h.raw(` defer></script><style>`)
		h.raw(styles)
		h.raw(`</style></head><body>`)
		h.component(ctx, body)
		h.raw(`</body></html>`)
	})
}

const styles = `
body{font-family:system-ui,sans-serif;background:#f6f7f9;color:#111;margin:0}
.container{max-width:40rem;margin:3rem auto;padding:0 1rem}
.card{background:#fff;border-radius:.75rem;padding:2rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.muted{color:#666}
.grid{display:grid;grid-template-columns:1fr 1fr;gap:1rem}
.field{display:flex;flex-direction:column;margin-bottom:1rem}
.field input,.field textarea{padding:.5rem;border:1px solid #ccc;border-radius:.375rem;font:inherit}
.has-error input,.has-error textarea{border-color:#dc2626}
.field-error{color:#dc2626;font-size:.875rem;margin:.25rem 0 0}
.btn{width:100%;padding:.75rem;border:0;border-radius:.375rem;background:#111;color:#fff;font:inherit;cursor:pointer}
.btn[disabled]{opacity:.6;cursor:not-allowed}
.btn .label-busy{display:none}
.btn.htmx-request .label-busy{display:inline-flex;align-items:center;gap:.5rem}
.btn.htmx-request .label-idle{display:none}
.spinner{width:1rem;height:1rem;border:2px solid #fff;border-right-color:transparent;border-radius:50%;animation:spin .8s linear infinite}
@keyframes spin{to{transform:rotate(360deg)}}
.toasts{position:fixed;right:1rem;bottom:1rem;max-width:24rem}
.toast{background:#fff;border:1px solid #ddd;border-radius:.5rem;padding:1rem;box-shadow:0 4px 12px rgba(0,0,0,.15)}
.toast-destructive{background:#dc2626;border-color:#dc2626;color:#fff}
.toast-title{font-weight:600;margin:0}
.toast-description{margin:.25rem 0 0}
`
