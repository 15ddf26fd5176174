// Package contactrelay serves a contact form and relays submissions to an
// email delivery provider.
//
// The HTTP surface lives in the handlers and views packages; the submission
// workflow lives in pkg/contact. This package exposes the small web framework
// they run on: an App built from options, handlers that declare routes on a
// Router, and a Context passed to every HandlerFunc.
//
//	ctrl := contact.NewController(cfg.Contact, client, contact.WithLogger(log))
//	app := contactrelay.New(
//	    contactrelay.WithLogger(log),
//	    contactrelay.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    contactrelay.WithHandlers(handlers.NewContact(ctrl)),
//	    contactrelay.WithHealthChecks(
//	        contactrelay.WithReadinessCheck("delivery", ctrl.Healthcheck()),
//	    ),
//	)
//	if err := app.Run(cfg.Addr, contactrelay.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// Handlers return errors instead of writing failure responses. The function
// passed to WithErrorHandler renders them, so HTMX fragments, JSON bodies and
// full pages share one error path.
package contactrelay
