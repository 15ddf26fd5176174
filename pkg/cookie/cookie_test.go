package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactrelay/pkg/cookie"
)

const secret = "0123456789abcdef0123456789abcdef"

// roundTrip copies cookies set on w into a new request.
func roundTrip(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

func TestManager_Plain(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecure(false), cookie.WithDomain("example.com"), cookie.WithSameSite(http.SameSiteStrictMode))

	w := httptest.NewRecorder()
	m.Set(w, "theme", "dark", 60)

	c := w.Result().Cookies()[0]
	assert.Equal(t, "dark", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "example.com", c.Domain)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	v, err := m.Get(roundTrip(w), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	_, err = m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "theme")
	require.ErrorIs(t, err, cookie.ErrNotFound)
}

func TestManager_Encrypted(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecret(secret))
	require.True(t, m.CanEncrypt())

	w := httptest.NewRecorder()
	require.NoError(t, m.SetEncrypted(w, "session", "hello", 0))
	assert.NotContains(t, w.Result().Cookies()[0].Value, "hello")

	v, err := m.GetEncrypted(roundTrip(w), "session")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	t.Run("other secret fails", func(t *testing.T) {
		t.Parallel()

		other := cookie.New(cookie.WithSecret(strings.Repeat("x", 32)))
		_, err := other.GetEncrypted(roundTrip(w), "session")
		require.ErrorIs(t, err, cookie.ErrDecrypt)
	})

	t.Run("renamed cookie fails", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "other", Value: w.Result().Cookies()[0].Value})
		_, err := m.GetEncrypted(r, "other")
		require.ErrorIs(t, err, cookie.ErrDecrypt)
	})

	t.Run("garbage fails", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "session", Value: "not*base64"})
		_, err := m.GetEncrypted(r, "session")
		require.ErrorIs(t, err, cookie.ErrDecrypt)
	})
}

func TestManager_NoSecret(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecret("too-short"))
	require.False(t, m.CanEncrypt())

	w := httptest.NewRecorder()
	require.ErrorIs(t, m.SetEncrypted(w, "a", "b", 0), cookie.ErrNoSecret)
	require.ErrorIs(t, m.SetFlash(w, "toast", "x"), cookie.ErrNoSecret)

	var dest string
	require.ErrorIs(t, m.Flash(w, httptest.NewRequest(http.MethodGet, "/", nil), "toast", &dest), cookie.ErrNoSecret)
}

func TestManager_Flash(t *testing.T) {
	t.Parallel()

	type toast struct {
		Title string `json:"title"`
	}

	m := cookie.FromConfig(cookie.Config{Secret: secret, Secure: true})

	w := httptest.NewRecorder()
	require.NoError(t, m.SetFlash(w, "toast", toast{Title: "Message Sent!"}))

	r := roundTrip(w)
	w2 := httptest.NewRecorder()

	var got toast
	require.NoError(t, m.Flash(w2, r, "toast", &got))
	assert.Equal(t, "Message Sent!", got.Title)

	deleted := w2.Result().Cookies()
	require.Len(t, deleted, 1)
	assert.Equal(t, "flash_toast", deleted[0].Name)
	assert.Negative(t, deleted[0].MaxAge)

	err := m.Flash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "toast", &got)
	require.ErrorIs(t, err, cookie.ErrNotFound)
}

func TestManager_Flash_DeletesUndecodable(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecret(secret))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "flash_toast", Value: "tampered"})
	w := httptest.NewRecorder()

	var dest map[string]any
	require.ErrorIs(t, m.Flash(w, r, "toast", &dest), cookie.ErrDecrypt)
	require.Len(t, w.Result().Cookies(), 1)
}
