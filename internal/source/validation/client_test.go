package validation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"validprop/internal/domain"
	"validprop/internal/testutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, testutil.NewTestLogger(t))
}

func TestClient_DashboardStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, StatsPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"totalProviders":1000,"validated":800,"needsReview":150,"processing":50,"accuracyRate":94.2,"avgProcessingTime":3.7}`))
	})

	stats, err := c.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{
		TotalProviders:    1000,
		Validated:         800,
		NeedsReview:       150,
		Processing:        50,
		AccuracyRate:      94.2,
		AvgProcessingTime: 3.7,
	}, stats)
}

func TestClient_DashboardStats_FreshDecodePerCall(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"totalProviders":10,"validated":7}`))
			return
		}
		_, _ = w.Write([]byte(`{"totalProviders":12}`))
	})

	_, err := c.DashboardStats(context.Background())
	require.NoError(t, err)

	stats, err := c.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(12), stats.TotalProviders)
	assert.Zero(t, stats.Validated)
}

func TestClient_RecentActivity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ActivityPath, r.URL.Path)
		_, _ = w.Write([]byte(`[{"description":"Batch #42 validated"},{"description":"Batch #41 uploaded"}]`))
	})

	entries, err := c.RecentActivity(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Batch #42 validated", entries[0].Description)
	assert.Equal(t, "Batch #41 uploaded", entries[1].Description)
}

func TestClient_RecentActivity_NullIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	entries, err := c.RecentActivity(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestClient_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := c.DashboardStats(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream exploded", statusErr.Body)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestClient_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := c.DashboardStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.RecentActivity(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_BaseURLTrimmed(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:8000/"}, testutil.NewTestLogger(t))
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}
