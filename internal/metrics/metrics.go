// Package metrics exposes Prometheus metrics: HTTP request counters, the
// thumbnail cache hit rate and storage gauges read from the database on each
// scrape.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vbonduro/depositdefender/internal/domain"
)

const namespace = "depositdefender"

// StatsFunc returns current storage statistics.
type StatsFunc func(ctx context.Context) (domain.StorageStats, error)

type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// New builds a private registry with the Go runtime collectors and, when
// stats is non-nil, the storage gauges.
func New(stats StatsFunc, logger *slog.Logger) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_cache_hits_total",
			Help:      "Thumbnail requests served from the in-memory cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_cache_misses_total",
			Help:      "Thumbnail requests that had to load the photo.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.cacheHits,
		m.cacheMisses,
	)
	if stats != nil {
		m.registry.MustRegister(newStorageCollector(stats, logger))
	}
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CacheHit()  { m.cacheHits.Inc() }
func (m *Metrics) CacheMiss() { m.cacheMisses.Inc() }

// Middleware records request counts and latency. Routes are labelled with
// the chi route pattern so ids do not blow up cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// storageCollector reads storage stats at scrape time.
type storageCollector struct {
	stats  StatsFunc
	logger *slog.Logger

	properties  *prometheus.Desc
	inspections *prometheus.Desc
	photos      *prometheus.Desc
	reports     *prometheus.Desc
	bytes       *prometheus.Desc
}

func newStorageCollector(stats StatsFunc, logger *slog.Logger) *storageCollector {
	return &storageCollector{
		stats:       stats,
		logger:      logger,
		properties:  prometheus.NewDesc(namespace+"_properties", "Stored properties.", nil, nil),
		inspections: prometheus.NewDesc(namespace+"_inspections", "Stored inspections.", nil, nil),
		photos:      prometheus.NewDesc(namespace+"_photos", "Stored photos.", nil, nil),
		reports:     prometheus.NewDesc(namespace+"_reports", "Stored reports.", nil, nil),
		bytes:       prometheus.NewDesc(namespace+"_storage_bytes", "Bytes held by photo images and report documents.", nil, nil),
	}
}

func (c *storageCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.properties
	ch <- c.inspections
	ch <- c.photos
	ch <- c.reports
	ch <- c.bytes
}

func (c *storageCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := c.stats(ctx)
	if err != nil {
		c.logger.Error("failed to collect storage stats", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.properties, prometheus.GaugeValue, float64(s.Properties))
	ch <- prometheus.MustNewConstMetric(c.inspections, prometheus.GaugeValue, float64(s.Inspections))
	ch <- prometheus.MustNewConstMetric(c.photos, prometheus.GaugeValue, float64(s.Photos))
	ch <- prometheus.MustNewConstMetric(c.reports, prometheus.GaugeValue, float64(s.Reports))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(s.TotalStorageBytes))
}
