package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Metrics struct {
	PollsTotal      *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	LastSuccess     *prometheus.GaugeVec
	ActiveViews     prometheus.Gauge
	SnapshotsStored prometheus.Counter
	EventsPublished prometheus.Counter
}

// New registers the dashboard metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PollsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "validprop_dashboard_polls_total",
			Help: "Dashboard API polls by data source and outcome",
		}, []string{"source", "outcome"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "validprop_dashboard_fetch_duration_seconds",
			Help:    "Duration of dashboard API fetches",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		LastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "validprop_dashboard_last_success_timestamp_seconds",
			Help: "Unix time of the last successful fetch per data source",
		}, []string{"source"}),
		ActiveViews: factory.NewGauge(prometheus.GaugeOpts{
			Name: "validprop_dashboard_active_views",
			Help: "Number of mounted dashboard views",
		}),
		SnapshotsStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "validprop_dashboard_snapshots_stored_total",
			Help: "Stats snapshots written to the archive",
		}),
		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "validprop_dashboard_events_published_total",
			Help: "Stats refresh events published",
		}),
	}
}

// ObservePoll records the outcome of one fetch. Safe on a nil receiver.
func (m *Metrics) ObservePoll(source string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		m.PollsTotal.WithLabelValues(source, OutcomeFailure).Inc()
		return
	}
	m.PollsTotal.WithLabelValues(source, OutcomeSuccess).Inc()
	m.LastSuccess.WithLabelValues(source).SetToCurrentTime()
}

func (m *Metrics) ViewMounted() {
	if m == nil {
		return
	}
	m.ActiveViews.Inc()
}

func (m *Metrics) ViewClosed() {
	if m == nil {
		return
	}
	m.ActiveViews.Dec()
}

func (m *Metrics) IncrementSnapshotsStored() {
	if m == nil {
		return
	}
	m.SnapshotsStored.Inc()
}

func (m *Metrics) IncrementEventsPublished() {
	if m == nil {
		return
	}
	m.EventsPublished.Inc()
}
