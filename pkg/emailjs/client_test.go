package emailjs_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactrelay/pkg/contact"
	"github.com/dmitrymomot/contactrelay/pkg/emailjs"
)

var testRequest = contact.DeliveryRequest{
	ServiceID:  "service_abc",
	TemplateID: "template_xyz",
	PublicKey:  "pk_123",
	Params: contact.Submission{
		SenderName:  "Ada",
		SenderEmail: "ada@example.com",
		Subject:     "Hello",
		Message:     "  spaced message\n",
	},
}

func TestClient_Deliver(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1.0/email/send", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte("OK"))
		}))
		t.Cleanup(srv.Close)

		c, err := emailjs.New(emailjs.Config{BaseURL: srv.URL, PrivateKey: "secret"})
		require.NoError(t, err)

		receipt, err := c.Deliver(context.Background(), testRequest)
		require.NoError(t, err)
		require.Equal(t, &contact.Receipt{Status: http.StatusOK, Text: "OK"}, receipt)

		require.Equal(t, "service_abc", got["service_id"])
		require.Equal(t, "template_xyz", got["template_id"])
		require.Equal(t, "pk_123", got["user_id"])
		require.Equal(t, "secret", got["accessToken"])
		require.Equal(t, map[string]any{
			"from_name":  "Ada",
			"from_email": "ada@example.com",
			"subject":    "Hello",
			"message":    "  spaced message\n",
		}, got["template_params"])
	})

	t.Run("access token omitted without private key", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte("OK"))
		}))
		t.Cleanup(srv.Close)

		c, err := emailjs.New(emailjs.Config{BaseURL: srv.URL + "/"})
		require.NoError(t, err)

		_, err = c.Deliver(context.Background(), testRequest)
		require.NoError(t, err)
		require.NotContains(t, got, "accessToken")
	})

	t.Run("rejection carries provider text", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Quota exceeded", http.StatusTooManyRequests)
		}))
		t.Cleanup(srv.Close)

		c, err := emailjs.New(emailjs.Config{BaseURL: srv.URL})
		require.NoError(t, err)

		receipt, err := c.Deliver(context.Background(), testRequest)
		require.Nil(t, receipt)

		var de *contact.DeliveryError
		require.True(t, errors.As(err, &de))
		require.Equal(t, http.StatusTooManyRequests, de.Status)
		require.Equal(t, "Quota exceeded", de.Text)
	})

	t.Run("html error page is reduced to text", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("<html><body><h1>Service Unavailable</h1><script>x()</script></body></html>"))
		}))
		t.Cleanup(srv.Close)

		c, err := emailjs.New(emailjs.Config{BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = c.Deliver(context.Background(), testRequest)
		require.Equal(t, "Service Unavailable", contact.AsDeliveryError(err).Text)
	})

	t.Run("rejection with empty body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		c, err := emailjs.New(emailjs.Config{BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = c.Deliver(context.Background(), testRequest)
		de := contact.AsDeliveryError(err)
		require.Equal(t, http.StatusBadGateway, de.Status)
		require.Empty(t, de.Text)
	})

	t.Run("transport error has no text", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		c, err := emailjs.New(emailjs.Config{BaseURL: url})
		require.NoError(t, err)

		_, err = c.Deliver(context.Background(), testRequest)
		require.ErrorIs(t, err, emailjs.ErrRequestFailed)
		require.Empty(t, contact.AsDeliveryError(err).Text)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(func() {
			close(release)
			srv.Close()
		})

		c, err := emailjs.New(emailjs.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
		require.NoError(t, err)

		_, err = c.Deliver(context.Background(), testRequest)
		require.ErrorIs(t, err, emailjs.ErrRequestFailed)
	})
}

func TestNew_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"ftp://example.com", "://bad", "example.com"} {
		_, err := emailjs.New(emailjs.Config{BaseURL: u})
		require.ErrorIs(t, err, emailjs.ErrInvalidBaseURL, u)
	}
}

func TestClient_Healthcheck(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c, err := emailjs.New(emailjs.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, c.Healthcheck()(context.Background()))
}
