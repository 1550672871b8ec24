package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GarrettC14/NutritionRx-sub008/internal/domain"
)

// Collector holds all Prometheus metrics for the service. Each Collector
// owns its registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Catalog metrics
	CacheLookups  *prometheus.CounterVec
	UpstreamCalls *prometheus.CounterVec
	Degraded      *prometheus.CounterVec
}

// NewCollector creates a collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	cacheLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Catalog cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)

	upstreamCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "FDC calls attempted by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	degraded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_responses_total",
			Help:      "Responses served from stale cache or empty after a failed fetch",
		},
		[]string{"operation", "fallback"},
	)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		cacheLookups,
		upstreamCalls,
		degraded,
	)

	return &Collector{
		registry:      registry,
		HTTPRequests:  httpRequests,
		HTTPDuration:  httpDuration,
		CacheLookups:  cacheLookups,
		UpstreamCalls: upstreamCalls,
		Degraded:      degraded,
	}
}

// Handler exposes the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// CacheLookup records a cache hit or miss
func (c *Collector) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(cache, result).Inc()
}

// Upstream records the outcome of one attempted FDC call. Calls refused by
// the local quota are counted separately from provider-side failures.
func (c *Collector) Upstream(operation string, err error) {
	outcome := domain.ClassifyOutcome(err).String()
	if errors.Is(err, domain.ErrRateLimited) {
		outcome = "rate_limited"
	}
	c.UpstreamCalls.WithLabelValues(operation, outcome).Inc()
}

// Degradation records a fallback response ("stale" or "empty")
func (c *Collector) Degradation(operation, fallback string) {
	c.Degraded.WithLabelValues(operation, fallback).Inc()
}

// ObserveHTTP records one served HTTP request
func (c *Collector) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
