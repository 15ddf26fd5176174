// Package internal is the HTTP application core behind the contactrelay
// package: a chi router wrapped in a Context-based handler API, an HTMX-aware
// response writer, and a server runner with graceful shutdown.
//
// Applications use it through the root package aliases:
//
//	app := contactrelay.New(
//	    contactrelay.WithLogger(log),
//	    contactrelay.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    contactrelay.WithHandlers(handlers.NewContact(ctrl, cookies)),
//	    contactrelay.WithHealthChecks(
//	        contactrelay.WithReadinessCheck("delivery", ctrl.Healthcheck()),
//	    ),
//	)
//	err := app.Run(":8080", contactrelay.Logger(log))
//
// Handlers return errors instead of writing failures themselves. The error
// handler installed with WithErrorHandler turns them into responses, which
// keeps HTMX, JSON, and full-page error rendering in one place.
package internal
