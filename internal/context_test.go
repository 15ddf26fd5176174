package internal_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactrelay/internal"
	"github.com/dmitrymomot/contactrelay/pkg/cookie"
	"github.com/dmitrymomot/contactrelay/pkg/htmx"
)

// requestVia registers fn at method / and serves req through a fresh App.
func requestVia(t *testing.T, req *http.Request, opts []internal.Option, fn func(c internal.Context) error) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts, internal.WithHandlers(&captureHandler{fn: fn}))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

type captureHandler struct {
	fn func(c internal.Context) error
}

func (h *captureHandler) Routes(r internal.Router) {
	r.GET("/", h.fn)
	r.POST("/", h.fn)
}

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

type (
	ctxKey struct{}
	setKey struct{}
)

func TestContext_DelegatesContext(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	requestVia(t, req, nil, func(c internal.Context) error {
		require.Equal(t, "v", c.Value(ctxKey{}))
		require.NoError(t, c.Err())

		c.Set(setKey{}, 42)
		require.Equal(t, 42, c.Get(setKey{}))
		require.Equal(t, 42, c.Request().Context().Value(setKey{}))
		return nil
	})
}

func TestContext_Form(t *testing.T) {
	t.Parallel()

	body := url.Values{"from_name": {"Ada"}, "message": {"  hi\n"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/?src=test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	requestVia(t, req, nil, func(c internal.Context) error {
		require.Equal(t, "Ada", c.Form("from_name"))
		require.Equal(t, "  hi\n", c.Form("message"))
		require.Equal(t, "test", c.Query("src"))
		return nil
	})
}

func TestContext_BindJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		opts    []internal.Option
		wantErr error
		want    string
	}{
		{name: "valid", body: `{"name":"Ada"}`, want: "Ada"},
		{name: "not json", body: `name=Ada`, wantErr: internal.ErrMalformedJSON},
		{name: "trailing data", body: `{"name":"Ada"} {}`, wantErr: internal.ErrMalformedJSON},
		{
			name:    "too large",
			body:    `{"name":"` + strings.Repeat("a", 100) + `"}`,
			opts:    []internal.Option{internal.WithMaxBodyBytes(16)},
			wantErr: internal.ErrBodyTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			requestVia(t, req, tt.opts, func(c internal.Context) error {
				var p payload
				err := c.BindJSON(&p)
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
					return nil
				}
				require.NoError(t, err)
				require.Equal(t, tt.want, p.Name)
				return nil
			})
		})
	}
}

func TestContext_JSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := requestVia(t, req, nil, func(c internal.Context) error {
		return c.JSON(http.StatusAccepted, map[string]string{"outcome": "sent"})
	})

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	require.JSONEq(t, `{"outcome":"sent"}`, w.Body.String())
}

func TestContext_Render(t *testing.T) {
	t.Parallel()

	t.Run("plain request ignores htmx options", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, nil, func(c internal.Context) error {
			return c.Render(http.StatusOK, text("<main/>"),
				htmx.WithOOB(text("<toast/>")),
				htmx.WithTrigger("toast"),
			)
		})

		require.Equal(t, "<main/>", w.Body.String())
		require.Empty(t, w.Header().Get(htmx.HeaderHXTrigger))
	})

	t.Run("htmx request gets headers and oob content", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(htmx.HeaderHXRequest, "true")
		w := requestVia(t, req, nil, func(c internal.Context) error {
			return c.Render(http.StatusUnprocessableEntity, text("<form/>"),
				htmx.WithOOB(text("<toast/>")),
				htmx.WithTrigger("toast"),
			)
		})

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "<form/><toast/>", w.Body.String())
		require.Equal(t, "toast", w.Header().Get(htmx.HeaderHXTrigger))
		require.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	})
}

func TestContext_RenderPartial(t *testing.T) {
	t.Parallel()

	handler := func(c internal.Context) error {
		return c.RenderPartial(http.StatusOK, text("page"), text("partial"))
	}

	plain := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, handler)
	require.Equal(t, "page", plain.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(htmx.HeaderHXRequest, "true")
	partial := requestVia(t, req, nil, handler)
	require.Equal(t, "partial", partial.Body.String())

	boosted := httptest.NewRequest(http.MethodGet, "/", nil)
	boosted.Header.Set(htmx.HeaderHXRequest, "true")
	boosted.Header.Set(htmx.HeaderHXBoosted, "true")
	require.Equal(t, "page", requestVia(t, boosted, nil, handler).Body.String())
}

func TestContext_Redirect(t *testing.T) {
	t.Parallel()

	handler := func(c internal.Context) error {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	w := requestVia(t, httptest.NewRequest(http.MethodPost, "/", nil), nil, handler)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(htmx.HeaderHXRequest, "true")
	hx := requestVia(t, req, nil, handler)
	require.Equal(t, "/", hx.Header().Get(htmx.HeaderHXRedirect))
}

func TestContext_Flash(t *testing.T) {
	t.Parallel()

	t.Run("without secret", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) error {
			require.False(t, c.CanFlash())
			require.ErrorIs(t, c.SetFlash("toast", "x"), cookie.ErrNoSecret)
			return nil
		})
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		opts := []internal.Option{internal.WithCookieManager(
			cookie.New(cookie.WithSecret(strings.Repeat("s", 32)), cookie.WithSecure(false)),
		)}

		set := requestVia(t, httptest.NewRequest(http.MethodPost, "/", nil), opts, func(c internal.Context) error {
			require.True(t, c.CanFlash())
			return c.SetFlash("toast", map[string]string{"title": "Message Sent!"})
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, ck := range set.Result().Cookies() {
			req.AddCookie(ck)
		}
		requestVia(t, req, opts, func(c internal.Context) error {
			var got map[string]string
			require.NoError(t, c.Flash("toast", &got))
			require.Equal(t, "Message Sent!", got["title"])
			return nil
		})
	})
}

func TestContext_ErrorAfterWrite(t *testing.T) {
	t.Parallel()

	w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) error {
		_ = c.String(http.StatusOK, "partial body")
		require.True(t, c.Written())
		return errors.New("late failure")
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "partial body", w.Body.String())
}
