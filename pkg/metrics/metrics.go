package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ScrapesTotal       *prometheus.CounterVec   // strategy, outcome
	ScrapeDuration     *prometheus.HistogramVec // strategy
	CacheLookups       *prometheus.CounterVec   // result: hit, miss, error
	CacheWriteFailures prometheus.Counter
	DetectorDecisions  *prometheus.CounterVec // decision: static, rendered, error
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ScrapesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrapes_total",
				Help: "Total number of scrape attempts.",
			},
			[]string{"strategy", "outcome"}, // outcome: cached, success, failure
		),
		ScrapeDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scrape_duration_seconds",
				Help:    "Duration of scrape operations.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 15, 30, 60},
			},
			[]string{"strategy"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_lookups_total",
				Help: "Result cache lookups by result.",
			},
			[]string{"result"},
		),
		CacheWriteFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_write_failures_total",
				Help: "Scraped records that could not be persisted.",
			},
		),
		DetectorDecisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "detector_decisions_total",
				Help: "Renderability detector decisions.",
			},
			[]string{"decision"},
		),
	}
}
