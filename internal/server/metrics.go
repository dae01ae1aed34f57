package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/layered/pkg/errors"
	"github.com/matzehuels/layered/pkg/observability"
)

// Metrics collects layout, cache and HTTP metrics on its own registry. It
// implements every hook interface of pkg/observability.
type Metrics struct {
	registry *prometheus.Registry

	layoutDuration  prometheus.Histogram
	layoutNodes     prometheus.Histogram
	stageDuration   *prometheus.HistogramVec
	layoutErrors    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors, including the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "layered_layout_duration_seconds",
			Help:    "Wall time of complete layout runs.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
		}),
		layoutNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "layered_layout_nodes",
			Help:    "Number of nodes per layout request.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "layered_stage_duration_seconds",
			Help:    "Wall time of individual layout stages.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"stage"}),
		layoutErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "layered_layout_errors_total",
			Help: "Failed layout runs by error code.",
		}, []string{"code"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "layered_cache_lookups_total",
			Help: "Cache lookups by backend and result.",
		}, []string{"backend", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "layered_cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}, []string{"backend"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "layered_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "layered_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.layoutDuration,
		m.layoutNodes,
		m.stageDuration,
		m.layoutErrors,
		m.cacheLookups,
		m.cacheBytes,
		m.requests,
		m.requestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnLayoutStart(_ context.Context, nodeCount, _ int) {
	m.layoutNodes.Observe(float64(nodeCount))
}

func (m *Metrics) OnStage(_ context.Context, stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	m.layoutDuration.Observe(d.Seconds())
	if err != nil {
		code := string(errors.GetCode(err))
		if code == "" {
			code = "UNKNOWN"
		}
		m.layoutErrors.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, backend string) {
	m.cacheLookups.WithLabelValues(backend, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, backend string) {
	m.cacheLookups.WithLabelValues(backend, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, backend string, size int) {
	m.cacheBytes.WithLabelValues(backend).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.LayoutHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
