package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for bookings, buddy sessions, and the
// safety panel's outbound API traffic.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	BookingsCancelled prometheus.Counter
	BookingsRejected  *prometheus.CounterVec // labels: reason
	SessionJoins      *prometheus.CounterVec // labels: outcome={joined,left,full}

	ForecastRequests *prometheus.CounterVec // labels: api={weather,tides}, outcome={success,error}
	ForecastCache    *prometheus.CounterVec // labels: api={weather,tides}, result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.BookingsCreated,
		m.BookingsCancelled,
		m.BookingsRejected,
		m.SessionJoins,
		m.ForecastRequests,
		m.ForecastCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shorebound",
			Name:      "bookings_created_total",
			Help:      "Total confirmed bookings created.",
		}),
		BookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shorebound",
			Name:      "bookings_cancelled_total",
			Help:      "Total bookings cancelled.",
		}),
		BookingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shorebound",
			Name:      "bookings_rejected_total",
			Help:      "Booking attempts rejected, by reason.",
		}, []string{"reason"}),
		SessionJoins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shorebound",
			Name:      "session_joins_total",
			Help:      "Buddy session join toggles, by outcome.",
		}, []string{"outcome"}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shorebound",
			Name:      "forecast_requests_total",
			Help:      "Outbound weather/tide API requests by outcome.",
		}, []string{"api", "outcome"}),
		ForecastCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shorebound",
			Name:      "forecast_cache_total",
			Help:      "Weather/tide cache lookups by result.",
		}, []string{"api", "result"}),
	}
}
