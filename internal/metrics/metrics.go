// Package metrics exposes Prometheus instrumentation for searches and HTTP routes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tomaru"

// Search outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeRetrievalError = "retrieval_error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	searchesTotal     *prometheus.CounterVec
	searchDuration    prometheus.Histogram
	fallbacksTotal    prometheus.Counter
	candidatesTotal   *prometheus.CounterVec
	historyErrors     prometheus.Counter
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	gatherer          prometheus.Gatherer
}

// New creates the collectors and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		searchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total parking searches by outcome.",
		}, []string{"outcome"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Histogram of parking search durations.",
			Buckets:   prometheus.DefBuckets,
		}),
		fallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Searches answered with synthetic fallback predictions.",
		}),
		candidatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Candidates seen by the ranker, by result (scored, out_of_radius or invalid).",
		}, []string{"result"}),
		historyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_errors_total",
			Help:      "Search history notifications that failed.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.searchesTotal,
		m.searchDuration,
		m.fallbacksTotal,
		m.candidatesTotal,
		m.historyErrors,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

// ObserveSearch records one completed or failed search.
func (m *Metrics) ObserveSearch(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(outcome).Inc()
	m.searchDuration.Observe(duration.Seconds())
}

// ObserveRanking records the candidate counts of one ranking.
func (m *Metrics) ObserveRanking(scored, outOfRadius, invalid int, fallback bool) {
	if m == nil {
		return
	}
	m.candidatesTotal.WithLabelValues("scored").Add(float64(scored))
	m.candidatesTotal.WithLabelValues("out_of_radius").Add(float64(outOfRadius))
	m.candidatesTotal.WithLabelValues("invalid").Add(float64(invalid))
	if fallback {
		m.fallbacksTotal.Inc()
	}
}

// HistoryError records a failed history notification.
func (m *Metrics) HistoryError() {
	if m == nil {
		return
	}
	m.historyErrors.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler counts requests and observes latency for route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
