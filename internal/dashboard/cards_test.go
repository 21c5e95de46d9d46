package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"validprop/internal/domain"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{50, "50"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCount(tt.in))
		})
	}
}

func TestFormatPercentAndSeconds(t *testing.T) {
	assert.Equal(t, "94.2%", FormatPercent(94.2))
	assert.Equal(t, "0%", FormatPercent(0))
	assert.Equal(t, "100%", FormatPercent(100))
	assert.Equal(t, "3.7s", FormatSeconds(3.7))
	assert.Equal(t, "12s", FormatSeconds(12))
}

func TestCards_ScenarioValues(t *testing.T) {
	cards := Cards(domain.DashboardStats{
		TotalProviders:    1000,
		Validated:         800,
		NeedsReview:       150,
		Processing:        50,
		AccuracyRate:      94.2,
		AvgProcessingTime: 3.7,
	})

	require.Len(t, cards, 6)

	byTitle := make(map[string]StatCard, len(cards))
	for _, c := range cards {
		byTitle[c.Title] = c
	}

	assert.Equal(t, "1,000", byTitle["Total Providers"].Value)
	assert.Equal(t, "800", byTitle["Validated"].Value)
	assert.Equal(t, "150", byTitle["Needs Review"].Value)
	assert.Equal(t, "50", byTitle["Processing"].Value)
	assert.Equal(t, "94.2%", byTitle["Accuracy Rate"].Value)
	assert.Equal(t, "3.7s", byTitle["Avg Processing Time"].Value)

	assert.Equal(t, ChangeNegative, byTitle["Needs Review"].ChangeType)
	assert.Equal(t, "-12.7%", byTitle["Avg Processing Time"].Change)
}

func TestCards_ZeroStats(t *testing.T) {
	cards := Cards(domain.DashboardStats{})

	assert.Equal(t, "0", cards[0].Value)
	assert.Equal(t, "0%", cards[4].Value)
	assert.Equal(t, "0s", cards[5].Value)
}

func TestDistribution(t *testing.T) {
	slices := Distribution(domain.DashboardStats{
		TotalProviders: 1000,
		Validated:      800,
		NeedsReview:    150,
		Processing:     50,
	})

	require.Len(t, slices, 3)
	assert.Equal(t, "Validated", slices[0].Label)
	assert.InDelta(t, 80.0, slices[0].Percent, 1e-9)
	assert.InDelta(t, 15.0, slices[1].Percent, 1e-9)
	assert.InDelta(t, 5.0, slices[2].Percent, 1e-9)
	assert.Equal(t, "800", slices[0].Display())
}

func TestDistribution_ZeroTotal(t *testing.T) {
	for _, s := range Distribution(domain.DashboardStats{Validated: 3}) {
		assert.Zero(t, s.Percent)
	}
}

func TestResult_Transitions(t *testing.T) {
	r := Loading[int]()
	assert.True(t, r.IsLoading())
	assert.Equal(t, "loading", r.Status.String())

	failed := r.Fail(assert.AnError)
	assert.True(t, failed.IsFailed())
	assert.False(t, failed.HasData)
	assert.Equal(t, assert.AnError.Error(), failed.Reason())

	ready := Ready(7, failed.UpdatedAt)
	assert.True(t, ready.IsReady())
	assert.Equal(t, 7, ready.Data)
	assert.Empty(t, ready.Reason())

	stale := ready.Fail(assert.AnError)
	assert.True(t, stale.HasData)
	assert.Equal(t, 7, stale.Data)
}
