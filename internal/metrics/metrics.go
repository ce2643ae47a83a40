// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tradewindow"

// Registry owns its own prometheus.Registry so that several instances (tests,
// CLI runs) never collide on global registration.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Analyses     *prometheus.CounterVec
	SeriesLength prometheus.Histogram
	Profit       prometheus.Histogram
}

// New creates a Registry with all collectors registered, plus the Go runtime
// and process collectors.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Trade analyses by input source and outcome",
			},
			[]string{"source", "outcome"},
		),
		SeriesLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "series_points",
				Help:      "Number of price points per analyzed series",
				Buckets:   prometheus.ExponentialBuckets(2, 4, 10),
			},
		),
		Profit: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "trade_profit",
				Help:      "Profit of the recommended trade",
				Buckets:   []float64{0, 0.01, 0.1, 1, 5, 10, 50, 100, 500, 1000},
			},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.HTTPRequests,
		r.HTTPDuration,
		r.Analyses,
		r.SeriesLength,
		r.Profit,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry (used by tests).
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveRequest records one finished HTTP request.
func (r *Registry) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveAnalysis records a successful analysis.
func (r *Registry) ObserveAnalysis(source string, points int, profit float64) {
	r.Analyses.WithLabelValues(source, "ok").Inc()
	r.SeriesLength.Observe(float64(points))
	r.Profit.Observe(profit)
}

// ObserveRejected records an analysis that could not run.
func (r *Registry) ObserveRejected(source, reason string) {
	r.Analyses.WithLabelValues(source, reason).Inc()
}
