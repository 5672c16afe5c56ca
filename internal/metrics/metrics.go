// Package metrics exposes Prometheus instrumentation for the artifact server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fao"

// Collector holds the Prometheus metrics for the artifact server.
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ArtifactRecords *prometheus.GaugeVec
	ArtifactBytes   *prometheus.GaugeVec
	LastBuildUnix   prometheus.Gauge
}

// NewCollector creates a collector registered on the given registerer.
// Callers pass a fresh registry so tests never trip duplicate registration.
func NewCollector(reg prometheus.Registerer) *Collector {
	auto := promauto.With(reg)
	return &Collector{
		RequestsTotal: auto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method, and status.",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: auto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by route.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5},
			},
			[]string{"route"},
		),
		ArtifactRecords: auto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "artifact_records",
				Help:      "Records in each artifact as of the latest build.",
			},
			[]string{"artifact"},
		),
		ArtifactBytes: auto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "artifact_bytes",
				Help:      "Size of each artifact file in bytes as of the latest build.",
			},
			[]string{"artifact"},
		),
		LastBuildUnix: auto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "artifact_last_build_timestamp_seconds",
				Help:      "Unix time of the most recent artifact build.",
			},
		),
	}
}

// SetArtifact records the size and record count of one artifact file.
func (c *Collector) SetArtifact(name string, records int, bytes int64) {
	c.ArtifactRecords.WithLabelValues(name).Set(float64(records))
	c.ArtifactBytes.WithLabelValues(name).Set(float64(bytes))
}

// MarkBuild records when artifacts were last built.
func (c *Collector) MarkBuild(at time.Time) {
	c.LastBuildUnix.Set(float64(at.Unix()))
}

// Middleware instruments requests with the counter and duration histogram,
// labeled by chi route pattern. The pattern is only known after routing, so
// labels are read once the inner handler returns.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		c.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the gathered metrics in Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
