package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vision2ui/internal/apperr"
)

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "invalid_format", Result(fmt.Errorf("%w: x", apperr.ErrInvalidFormat)))
	assert.Equal(t, "already_exists", Result(apperr.ErrAlreadyExists))
	assert.Equal(t, "not_found", Result(apperr.ErrNotFound))
	assert.Equal(t, "read_error", Result(apperr.ErrRead))
	assert.Equal(t, "write_error", Result(apperr.ErrWrite))
	assert.Equal(t, "error", Result(errors.New("boom")))
}

func TestObserveOperation(t *testing.T) {
	m := New()
	m.ObserveOperation("add", nil)
	m.ObserveOperation("add", apperr.ErrAlreadyExists)
	m.ObserveOperation("add", apperr.ErrAlreadyExists)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("add", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("add", "already_exists")))
}

func TestObserveEvent(t *testing.T) {
	m := New()
	m.ObserveEvent("created")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("created")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/components/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/components/Button", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/components/{name}", "GET", "404")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveOperation("list", nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "vision2ui_catalog_operations_total"))
}
