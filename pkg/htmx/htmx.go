// Package htmx holds the HTMX request and response header helpers used by
// the contact form handlers.
//
// Response headers are collected in a Config through RenderOption values and
// applied before the body is written:
//
//	cfg := htmx.NewConfig(
//	    htmx.WithTriggerDetail("toast", notification),
//	    htmx.WithOOB(views.Toast(notification)),
//	)
//	if err := cfg.ApplyHeaders(w); err != nil { ... }
package htmx

import "net/http"

// Request headers.
const (
	HeaderHXRequest     = "HX-Request"
	HeaderHXBoosted     = "HX-Boosted"
	HeaderHXTarget      = "HX-Target"
	HeaderHXTriggerName = "HX-Trigger-Name"
	HeaderHXCurrentURL  = "HX-Current-URL"
)

// Response headers.
const (
	HeaderHXRedirect           = "HX-Redirect"
	HeaderHXRefresh            = "HX-Refresh"
	HeaderHXPushURL            = "HX-Push-Url"
	HeaderHXReswap             = "HX-Reswap"
	HeaderHXRetarget           = "HX-Retarget"
	HeaderHXReselect           = "HX-Reselect"
	HeaderHXTrigger            = "HX-Trigger"
	HeaderHXTriggerAfterSettle = "HX-Trigger-After-Settle"
)

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderHXRequest) == "true"
}

// IsBoosted reports whether r comes from an hx-boost link or form.
// Boosted requests expect a full page.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get(HeaderHXBoosted) == "true"
}

// Target returns the id of the element targeted by the request.
func Target(r *http.Request) string {
	return r.Header.Get(HeaderHXTarget)
}

// Redirect sends the client to url. HTMX requests get HX-Redirect with 200,
// others a regular redirect with status.
func Redirect(w http.ResponseWriter, r *http.Request, url string, status int) {
	if IsHTMX(r) {
		w.Header().Set(HeaderHXRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, status)
}
