package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the batch pipeline.
type Metrics struct {
	BatchesRun     prometheus.Counter
	CitiesQueried  prometheus.Counter
	CitiesResolved prometheus.Counter
	BatchDuration  prometheus.Histogram

	// External request metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: outcome={success,empty,error}
	WeatherRequests    *prometheus.CounterVec   // labels: kind={forecast,current}, outcome={success,error}
	RateLimitWaitTotal prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.BatchesRun,
		m.CitiesQueried,
		m.CitiesResolved,
		m.BatchDuration,
		m.GeocodeRequests,
		m.WeatherRequests,
		m.RateLimitWaitTotal,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		BatchesRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_weather",
			Name:      "batches_run_total",
			Help:      "Total batch pipeline runs.",
		}),
		CitiesQueried: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_weather",
			Name:      "cities_queried_total",
			Help:      "Total city queries parsed from user input.",
		}),
		CitiesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_weather",
			Name:      "cities_resolved_total",
			Help:      "Total city queries that resolved to coordinates.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "city_weather",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete resolve-retrieve-persist-render run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "city_weather",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "city_weather",
			Name:      "weather_requests_total",
			Help:      "Weather API requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RateLimitWaitTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_weather",
			Name:      "rate_limit_waits_total",
			Help:      "Times the resolver slept to respect the geocoding rate limit.",
		}),
	}
}
