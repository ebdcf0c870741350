// Package metrics exposes analysis and HTTP metrics in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records goseasonal metrics into its own registry.
type Recorder struct {
	registry *prometheus.Registry

	analyses        *prometheus.CounterVec
	analysisSeconds *prometheus.HistogramVec
	observations    prometheus.Histogram
	requests        *prometheus.CounterVec
	requestSeconds  *prometheus.HistogramVec
}

// New creates a recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goseasonal_analyses_total",
				Help: "Total number of analyses run",
			},
			[]string{"mode", "status"},
		),
		analysisSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goseasonal_analysis_duration_seconds",
				Help:    "Duration of analysis pipeline runs in seconds",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"mode"},
		),
		observations: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "goseasonal_series_observations",
				Help:    "Number of observations per analysed series",
				Buckets: []float64{4, 8, 16, 32, 64, 128, 256, 512},
			},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goseasonal_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		requestSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goseasonal_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"route", "method", "class"},
		),
	}
}

// RecordAnalysis records one pipeline run. status is "ok" or "error".
func (r *Recorder) RecordAnalysis(mode, status string, observations int, elapsed time.Duration) {
	r.analyses.WithLabelValues(mode, status).Inc()
	if status == "ok" {
		r.analysisSeconds.WithLabelValues(mode).Observe(elapsed.Seconds())
		r.observations.Observe(float64(observations))
	}
}

// RecordRequest records a served HTTP request. route should be the route
// template, not the raw path.
func (r *Recorder) RecordRequest(route, method string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.requestSeconds.WithLabelValues(route, method, statusClass(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func statusClass(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
