// Package middlewares provides the HTTP middleware used by contactrelay.
//
// RequestID tags each request with an ID (reused from X-Request-ID when the
// caller sends one) and RequestIDExtractor adds it to every log record.
// Recover converts panics into *PanicError values for the app error handler.
// CORS opens the JSON API to static sites hosted on other origins.
//
//	app := contactrelay.New(
//	    contactrelay.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	    ),
//	)
package middlewares
