package internal

// Handler declares routes on a router.
//
// Example:
//
//	type Contact struct{ ctrl *contact.Controller }
//
//	func (h *Contact) Routes(r contactrelay.Router) {
//	    r.GET("/", h.page)
//	    r.POST("/contact", h.submit)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc handles a request. A returned error is passed to the
// application's error handler unless a response was already written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error
