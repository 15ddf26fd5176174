package health_test

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

	"github.com/dmitrymomot/contactrelay/pkg/health"
)

func ok(context.Context) error { return nil }

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()

		resp, err := health.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, health.StatusHealthy, resp.Status)
	})

	t.Run("one failure does not hide others", func(t *testing.T) {
		t.Parallel()

		resp, err := health.Run(context.Background(), health.Checks{
			"delivery": ok,
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		require.ErrorIs(t, err, health.ErrCheckFailed)
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Equal(t, health.StatusHealthy, resp.Checks["delivery"].Status)
		assert.Equal(t, "connection refused", resp.Checks["redis"].Error)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		resp, err := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(20*time.Millisecond))
		require.ErrorIs(t, err, health.ErrCheckFailed)
		assert.Contains(t, resp.Checks["slow"].Error, health.ErrCheckTimeout.Error())
	})
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	health.LivenessHandler()(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	health.LivenessHandler()(w, httptest.NewRequest(http.MethodGet, "/health/live?format=json", nil))
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	failing := health.ReadinessHandler(health.Checks{
		"delivery": func(context.Context) error { return errors.New("not configured") },
	})

	w := httptest.NewRecorder()
	failing(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Service Unavailable", w.Body.String())

	r := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	r.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	failing(w, r)

	var resp health.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, health.StatusUnhealthy, resp.Status)
	assert.Equal(t, "not configured", resp.Checks["delivery"].Error)

	w = httptest.NewRecorder()
	health.ReadinessHandler(health.Checks{"delivery": ok})(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
