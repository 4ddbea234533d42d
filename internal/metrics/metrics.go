// Package metrics exposes Prometheus instrumentation for the analysis service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RMahshie/resonara/pkg/models"
)

// Metrics groups the collectors recorded by the service
type Metrics struct {
	analysesTotal      *prometheus.CounterVec
	processingDuration prometheus.Histogram
	dominantFrequency  prometheus.Gauge
	assessmentsTotal   *prometheus.CounterVec
	httpRequestsTotal  *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	registry           *prometheus.Registry
}

// New creates the collectors and registers them on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resonara_analyses_processed_total",
			Help: "Total analyses processed by outcome.",
		}, []string{"outcome"}),
		processingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resonara_processing_duration_seconds",
			Help:    "Histogram of end-to-end analysis processing durations.",
			Buckets: prometheus.DefBuckets,
		}),
		dominantFrequency: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "resonara_last_dominant_frequency_hz",
			Help: "Dominant forcing frequency of the most recent analysis.",
		}),
		assessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resonara_resonance_assessments_total",
			Help: "Total resonance assessments by risk level.",
		}, []string{"risk"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.analysesTotal,
		m.processingDuration,
		m.dominantFrequency,
		m.assessmentsTotal,
		m.httpRequestsTotal,
		m.httpDuration,
	)

	return m
}

// ObserveAnalysis records one processed analysis
func (m *Metrics) ObserveAnalysis(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(outcome).Inc()
	m.processingDuration.Observe(d.Seconds())
}

// ObserveDominantFrequency records the latest forcing frequency
func (m *Metrics) ObserveDominantFrequency(d models.DominantFrequency) {
	if m == nil {
		return
	}
	m.dominantFrequency.Set(d.Frequency)
}

// ObserveAssessment counts an assessment by risk level
func (m *Metrics) ObserveAssessment(risk models.RiskLevel) {
	if m == nil {
		return
	}
	m.assessmentsTotal.WithLabelValues(string(risk)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// unmatchedRoute labels requests that no chi route pattern matched, keeping
// raw paths out of the label set.
const unmatchedRoute = "unmatched"

// Middleware records request counts and durations by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
