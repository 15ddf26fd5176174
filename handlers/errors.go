package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/contactrelay"
	"github.com/dmitrymomot/contactrelay/middlewares"
	"github.com/dmitrymomot/contactrelay/pkg/contact"
	"github.com/dmitrymomot/contactrelay/pkg/htmx"
	"github.com/dmitrymomot/contactrelay/views"
)

// ErrorHandler renders handler errors as JSON for API clients, as an
// out-of-band toast for htmx requests, and as a full page otherwise.
func ErrorHandler(c contactrelay.Context, err error) error {
	herr := contactrelay.AsHTTPError(err)
	if herr == nil {
		herr = contactrelay.ErrInternal("Something went wrong. Please try again.", contactrelay.WithError(err))
	}

	attrs := []any{slog.Int("status", herr.Code), slog.Any("error", err)}
	if pe, ok := middlewares.AsPanicError(err); ok {
		attrs = append(attrs, slog.Any("panic", pe.Value))
	}
	if herr.Code >= http.StatusInternalServerError {
		c.LogError("request failed", attrs...)
	} else {
		c.LogDebug("request rejected", attrs...)
	}

	if isAPI(c.Request()) {
		return c.JSON(herr.Code, APIResponse{
			Outcome: "error",
			Errors:  herr.Details,
			Notification: &contact.Notification{
				Title:       herr.StatusText(),
				Description: herr.Message,
				Variant:     contact.VariantDestructive,
			},
		})
	}

	if c.IsHTMX() {
		n := contact.Notification{
			Title:       herr.StatusText(),
			Description: herr.Message,
			Variant:     contact.VariantDestructive,
		}
		return c.Render(herr.Code, views.Toast(n, false),
			htmx.WithRetarget("#"+views.ToastRegionID),
			htmx.WithReswap(htmx.SwapOuterHTML),
			htmx.WithTriggerDetail(toastEvent, n),
		)
	}

	return c.Render(herr.Code, views.ErrorPage(herr.Code, herr.StatusText(), herr.Message))
}

// NotFound answers unmatched routes.
func NotFound(c contactrelay.Context) error {
	return contactrelay.ErrNotFound("The page you are looking for does not exist.")
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(c contactrelay.Context) error {
	return contactrelay.ErrMethodNotAllowed("This endpoint does not support " + c.Request().Method + ".")
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
