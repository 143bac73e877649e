// Package metrics holds the Prometheus instrumentation for the service.
// Defining every metric in one place keeps naming and labeling consistent.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service bundles the registered collectors.
type Service struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	StatsQueries  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubstats_http_requests_total",
			Help: "Requests served, labeled by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubstats_http_request_duration_seconds",
			Help:    "Request latency by route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		StatsQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubstats_stats_queries_total",
			Help: "Statistics queries served, labeled by entity and outcome.",
		}, []string{"entity", "status"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubstats_stats_query_duration_seconds",
			Help:    "End-to-end statistics query latency by entity.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"entity"}),
	}

	reg.MustRegister(
		s.HTTPRequests,
		s.HTTPDuration,
		s.StatsQueries,
		s.QueryDuration,
	)

	return s
}

// NewHandler returns the scrape endpoint handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// ObserveQuery implements the query service's metrics hook.
func (s *Service) ObserveQuery(entity, status string, took time.Duration) {
	s.StatsQueries.WithLabelValues(entity, status).Inc()
	s.QueryDuration.WithLabelValues(entity).Observe(took.Seconds())
}

// ObserveHTTP records one served request.
func (s *Service) ObserveHTTP(route, method, code string, took time.Duration) {
	s.HTTPRequests.WithLabelValues(route, method, code).Inc()
	s.HTTPDuration.WithLabelValues(route).Observe(took.Seconds())
}
