// Package metrics provides Prometheus collectors for the bracket predictor.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bracket_predictor"

// Metrics bundles the service's Prometheus collectors.
type Metrics struct {
	refreshes       *prometheus.CounterVec
	refreshErrors   *prometheus.CounterVec
	ratingUpdates   prometheus.Counter
	simulationRuns  prometheus.Counter
	trackedEvents   prometheus.Gauge
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	pollCycle       prometheus.Histogram
}

// New registers the collectors with the given registerer. Pass
// prometheus.DefaultRegisterer in main; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_refreshes_total",
			Help:      "Completed event refreshes.",
		}, []string{"event"}),
		refreshErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_refresh_errors_total",
			Help:      "Event refreshes aborted by an error.",
		}, []string{"event"}),
		ratingUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_updates_total",
			Help:      "Matches applied to the rating engine.",
		}),
		simulationRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bracket_simulations_total",
			Help:      "Bracket simulations executed.",
		}),
		trackedEvents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_events",
			Help:      "Events currently tracked by the poller.",
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "datasource_request_duration_seconds",
			Help:      "Data source request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datasource_request_errors_total",
			Help:      "Failed data source requests.",
		}, []string{"endpoint"}),
		pollCycle: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_cycle_duration_seconds",
			Help:      "Wall time of one full polling cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 180, 600},
		}),
	}
}

// IncRefresh records one completed refresh for an event.
func (m *Metrics) IncRefresh(event string) {
	m.refreshes.WithLabelValues(event).Inc()
}

// IncRefreshError records one failed refresh for an event.
func (m *Metrics) IncRefreshError(event string) {
	m.refreshErrors.WithLabelValues(event).Inc()
}

// IncRatingUpdates records n matches applied to the rating engine.
func (m *Metrics) IncRatingUpdates(n int) {
	m.ratingUpdates.Add(float64(n))
}

// IncSimulationRuns records one bracket simulation.
func (m *Metrics) IncSimulationRuns() {
	m.simulationRuns.Inc()
}

// SetTrackedEvents records the current tracked-event count.
func (m *Metrics) SetTrackedEvents(n int) {
	m.trackedEvents.Set(float64(n))
}

// ObserveDataSourceRequest records one data source request's latency and
// outcome.
func (m *Metrics) ObserveDataSourceRequest(endpoint string, d time.Duration, err error) {
	m.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	if err != nil {
		m.requestErrors.WithLabelValues(endpoint).Inc()
	}
}

// ObservePollCycle records the wall time of one polling cycle.
func (m *Metrics) ObservePollCycle(d time.Duration) {
	m.pollCycle.Observe(d.Seconds())
}
