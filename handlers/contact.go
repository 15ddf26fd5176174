package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/contactrelay"
	"github.com/dmitrymomot/contactrelay/middlewares"
	"github.com/dmitrymomot/contactrelay/pkg/contact"
	"github.com/dmitrymomot/contactrelay/pkg/cookie"
	"github.com/dmitrymomot/contactrelay/pkg/htmx"
	"github.com/dmitrymomot/contactrelay/pkg/id"
	"github.com/dmitrymomot/contactrelay/views"
)

const (
	flashKey   = "toast"
	toastEvent = "toast"

	// outcomeInvalid is reported by the API when required fields are missing.
	// The controller never sees such submissions.
	outcomeInvalid = "invalid"
)

// Contact serves the contact page, the form endpoint and the JSON API.
type Contact struct {
	ctrl *contact.Controller
	cors []middlewares.CORSOption
}

// ContactOption configures the Contact handler.
type ContactOption func(*Contact)

// WithCORS sets the CORS options for the JSON API.
func WithCORS(opts ...middlewares.CORSOption) ContactOption {
	return func(h *Contact) {
		h.cors = opts
	}
}

// NewContact creates the contact handler.
func NewContact(ctrl *contact.Controller, opts ...ContactOption) *Contact {
	h := &Contact{ctrl: ctrl}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes implements contactrelay.Handler.
func (h *Contact) Routes(r contactrelay.Router) {
	r.GET("/", h.page)
	r.POST("/contact", h.submit)
	r.Route("/api", func(r contactrelay.Router) {
		r.Use(middlewares.CORS(h.cors...))
		r.POST("/contact", h.api)
		r.OPTIONS("/contact", func(c contactrelay.Context) error {
			return c.NoContent(http.StatusNoContent)
		})
	})
}

func (h *Contact) page(c contactrelay.Context) error {
	data := views.PageData{Form: views.FormData{Form: contact.Form{ID: id.NewFormID()}}}

	var n contact.Notification
	switch err := c.Flash(flashKey, &n); {
	case err == nil:
		data.Toast = &n
	case errors.Is(err, cookie.ErrNotFound), errors.Is(err, cookie.ErrNoSecret):
	default:
		c.LogWarn("unreadable flash cookie", slog.Any("error", err))
	}

	return c.Render(http.StatusOK, views.Page(data))
}

func (h *Contact) submit(c contactrelay.Context) error {
	form := &contact.Form{
		ID: c.Form("form_id"),
		Submission: contact.Submission{
			SenderName:  c.Form(contact.FieldSenderName),
			SenderEmail: c.Form(contact.FieldSenderEmail),
			Subject:     c.Form(contact.FieldSubject),
			Message:     c.Form(contact.FieldMessage),
		},
	}

	if err := form.Submission.Validate(); err != nil {
		fd := views.FormData{Form: *form, Errors: contact.FieldErrors(err)}
		return c.RenderPartial(http.StatusUnprocessableEntity,
			views.Page(views.PageData{Form: fd}),
			views.ContactForm(fd),
		)
	}

	rec := &contact.Recorder{}
	out := h.ctrl.HandleSubmit(c, form, rec)
	note, hasNote := rec.Last()
	status := outcomeStatus(out)

	if out == contact.OutcomeBusy {
		fd := views.FormData{Form: *form, Submitting: true}
		return c.RenderPartial(status, views.Page(views.PageData{Form: fd}), views.ContactForm(fd))
	}

	if c.IsHTMX() {
		var opts []htmx.RenderOption
		if hasNote {
			opts = append(opts,
				htmx.WithOOB(views.Toast(note, true)),
				htmx.WithTriggerDetail(toastEvent, note),
			)
		}
		return c.Render(status, views.ContactForm(views.FormData{Form: *form}), opts...)
	}

	if out == contact.OutcomeSent && c.CanFlash() {
		err := c.SetFlash(flashKey, note)
		if err == nil {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		c.LogWarn("flash not stored, rendering directly", slog.Any("error", err))
	}

	data := views.PageData{Form: views.FormData{Form: *form}}
	if hasNote {
		data.Toast = &note
	}
	return c.Render(status, views.Page(data))
}

// APIRequest is the JSON body accepted by POST /api/contact.
type APIRequest struct {
	contact.Submission
	FormID string `json:"form_id,omitempty"`
}

// APIResponse is returned by POST /api/contact.
type APIResponse struct {
	Notification *contact.Notification `json:"notification,omitempty"`
	Errors       map[string]string     `json:"errors,omitempty"`
	Outcome      string                `json:"outcome"`
}

func (h *Contact) api(c contactrelay.Context) error {
	var req APIRequest
	if err := c.BindJSON(&req); err != nil {
		if errors.Is(err, contactrelay.ErrBodyTooLarge) {
			return contactrelay.ErrRequestTooLarge("Request body is too large")
		}
		// Without a decodable body there is no form to submit.
		out := h.ctrl.HandleSubmit(c, nil, nil)
		return c.JSON(outcomeStatus(out), APIResponse{Outcome: out.String()})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Outcome: outcomeInvalid,
			Errors:  contact.FieldErrors(err),
		})
	}

	rec := &contact.Recorder{}
	form := &contact.Form{ID: req.FormID, Submission: req.Submission}
	out := h.ctrl.HandleSubmit(c, form, rec)

	resp := APIResponse{Outcome: out.String()}
	if n, ok := rec.Last(); ok {
		resp.Notification = &n
	}
	return c.JSON(outcomeStatus(out), resp)
}

func outcomeStatus(o contact.Outcome) int {
	switch o {
	case contact.OutcomeSent:
		return http.StatusOK
	case contact.OutcomeMisconfigured:
		return http.StatusServiceUnavailable
	case contact.OutcomeFailed:
		return http.StatusBadGateway
	case contact.OutcomeBusy:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
