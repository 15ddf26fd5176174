package middlewares_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactrelay/internal"
	"github.com/dmitrymomot/contactrelay/middlewares"
	"github.com/dmitrymomot/contactrelay/pkg/logger"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	boom := func(internal.Context) error { panic("boom") }

	t.Run("panic becomes PanicError", func(t *testing.T) {
		t.Parallel()

		var got error
		opts := []internal.Option{internal.WithErrorHandler(func(c internal.Context, err error) error {
			got = err
			return c.String(http.StatusInternalServerError, "sorry")
		})}

		w := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), boom, opts, middlewares.Recover())

		require.Equal(t, http.StatusInternalServerError, w.Code)
		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		require.Equal(t, "boom", pe.Value)
		require.NotEmpty(t, pe.Stack)
		require.Equal(t, "panic: boom", pe.Error())
	})

	t.Run("stack can be disabled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, flush := logger.New(logger.Config{Level: "info", Format: "json"}, &buf)
		t.Cleanup(flush)

		var got error
		opts := []internal.Option{
			internal.WithLogger(log),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				got = err
				return c.NoContent(http.StatusInternalServerError)
			}),
		}
		serve(t, httptest.NewRequest(http.MethodGet, "/", nil), boom, opts,
			middlewares.Recover(middlewares.WithRecoverDisablePrintStack()))

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		require.Nil(t, pe.Stack)
		require.Contains(t, buf.String(), "panic recovered")
		require.NotContains(t, buf.String(), `"stack"`)
	})

	t.Run("no panic passes through", func(t *testing.T) {
		t.Parallel()

		w := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), ok, nil, middlewares.Recover())
		require.Equal(t, "ok", w.Body.String())
	})
}
