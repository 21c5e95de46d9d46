package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservePoll(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePoll("stats", time.Now(), nil)
	m.ObservePoll("stats", time.Now(), errors.New("down"))
	m.ObservePoll("activity", time.Now(), nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.PollsTotal.WithLabelValues("stats", OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PollsTotal.WithLabelValues("stats", OutcomeFailure)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PollsTotal.WithLabelValues("activity", OutcomeSuccess)))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccess.WithLabelValues("stats")), float64(0))
}

func TestActiveViews(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ViewMounted()
	m.ViewMounted()
	m.ViewClosed()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActiveViews))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObservePoll("stats", time.Now(), nil)
	m.ViewMounted()
	m.ViewClosed()
	m.IncrementSnapshotsStored()
	m.IncrementEventsPublished()
}
