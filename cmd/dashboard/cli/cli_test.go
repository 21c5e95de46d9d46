package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"validprop/internal/domain"
	"validprop/internal/health"
)

type stubSource struct {
	stats       domain.DashboardStats
	activity    []domain.ActivityEntry
	activityErr error
}

func (s stubSource) DashboardStats(context.Context) (domain.DashboardStats, error) {
	return s.stats, nil
}

func (s stubSource) RecentActivity(context.Context) ([]domain.ActivityEntry, error) {
	return s.activity, s.activityErr
}

func TestFetchSnapshot(t *testing.T) {
	source := stubSource{
		stats:    domain.DashboardStats{TotalProviders: 1000, AccuracyRate: 94.2, AvgProcessingTime: 3.7},
		activity: []domain.ActivityEntry{{Description: "Batch 17 validated"}},
	}

	out, err := fetchSnapshot(context.Background(), source)

	require.NoError(t, err)
	assert.Equal(t, float64(1000), out.Stats.TotalProviders)
	assert.Len(t, out.Activity, 1)
	assert.WithinDuration(t, time.Now(), out.FetchedAt, time.Minute)
}

func TestFetchSnapshot_ActivityError(t *testing.T) {
	source := stubSource{activityErr: errors.New("boom")}

	_, err := fetchSnapshot(context.Background(), source)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch activity")
}

func TestPrintSnapshot(t *testing.T) {
	var buf bytes.Buffer
	err := printSnapshot(&buf, snapshotOutput{
		Stats: domain.DashboardStats{TotalProviders: 1000, AccuracyRate: 94.2, AvgProcessingTime: 3.7},
		Activity: []domain.ActivityEntry{
			{Description: "Batch 17 validated"},
			{},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Total Providers")
	assert.Contains(t, out, "1,000")
	assert.Contains(t, out, "94.2%")
	assert.Contains(t, out, "3.7s")
	assert.Contains(t, out, "  - Batch 17 validated\n  - Activity\n")
}

func TestPrintSnapshot_NoActivity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSnapshot(&buf, snapshotOutput{}))

	assert.Contains(t, buf.String(), "No recent activity")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	assert.Equal(t, "dashboard version "+health.Version+"\n", buf.String())
}

func TestSetupLogger(t *testing.T) {
	assert.True(t, setupLogger("debug").Enabled(context.Background(), -4))
	assert.False(t, setupLogger("warn").Enabled(context.Background(), 0))
	assert.True(t, setupLogger("bogus").Enabled(context.Background(), 0))
}
