package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus instrumentation for the service.
type Metrics struct {
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	calculationsTotal prometheus.Counter
	accrualErrors     prometheus.Counter
	benchmarkRaces    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total calculation cache hits observed.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total calculation cache misses observed.",
		}),
		calculationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interest_calculations_total",
			Help: "Total interest calculation runs.",
		}),
		accrualErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "accrual_errors_total",
			Help: "Total daily accrual task failures.",
		}),
		benchmarkRaces: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranking_benchmark_races",
			Help:    "Histogram of comparison counts per ranking benchmark run.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}

	prometheus.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.calculationsTotal,
		m.accrualErrors,
		m.benchmarkRaces,
	)
	return m
}

// Handler exposes the registered metrics for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(route, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) CacheHit()       { m.cacheHits.Inc() }
func (m *Metrics) CacheMiss()      { m.cacheMisses.Inc() }
func (m *Metrics) CalculationRun() { m.calculationsTotal.Inc() }
func (m *Metrics) AccrualError()   { m.accrualErrors.Inc() }

func (m *Metrics) BenchmarkRaces(races int) { m.benchmarkRaces.Observe(float64(races)) }
