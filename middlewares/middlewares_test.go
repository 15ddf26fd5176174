package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/contactrelay/internal"
)

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

// serve builds an app with mw on every route and h at GET, POST and OPTIONS /.
func serve(t *testing.T, req *http.Request, h internal.HandlerFunc, opts []internal.Option, mw ...internal.Middleware) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts,
		internal.WithMiddleware(mw...),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", h)
			r.POST("/", h)
			r.OPTIONS("/", h)
		})),
	)

	w := httptest.NewRecorder()
	internal.New(opts...).ServeHTTP(w, req)
	return w
}

func ok(c internal.Context) error {
	return c.String(http.StatusOK, "ok")
}
