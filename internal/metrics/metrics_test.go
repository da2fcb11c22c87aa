package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/depositdefender/internal/domain"
)

func fixedStats(_ context.Context) (domain.StorageStats, error) {
	return domain.StorageStats{Properties: 2, Inspections: 3, Photos: 7, Reports: 1, TotalStorageBytes: 4096}, nil
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestStorageGauges(t *testing.T) {
	m := New(fixedStats, slog.Default())

	body := scrape(t, m)
	assert.Contains(t, body, "depositdefender_properties 2")
	assert.Contains(t, body, "depositdefender_inspections 3")
	assert.Contains(t, body, "depositdefender_photos 7")
	assert.Contains(t, body, "depositdefender_reports 1")
	assert.Contains(t, body, "depositdefender_storage_bytes 4096")
}

func TestStorageGauges_ErrorSkipsGauges(t *testing.T) {
	m := New(func(context.Context) (domain.StorageStats, error) {
		return domain.StorageStats{}, errors.New("database is closed")
	}, slog.Default())

	body := scrape(t, m)
	assert.False(t, strings.Contains(body, "depositdefender_properties "))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(nil, slog.Default())
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/photos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/photos/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/photos/{id}", "404")))
}

func TestCacheCounters(t *testing.T) {
	m := New(nil, slog.Default())
	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))
}
