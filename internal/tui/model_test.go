package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"validprop/internal/dashboard"
	"validprop/internal/domain"
)

type fakeController struct {
	mu        sync.Mutex
	view      dashboard.View
	updates   chan struct{}
	refreshes int
}

func newFakeController() *fakeController {
	return &fakeController{
		view: dashboard.View{
			Stats:    dashboard.Loading[domain.DashboardStats](),
			Activity: dashboard.Loading[[]domain.ActivityEntry](),
		},
		updates: make(chan struct{}, 1),
	}
}

func (f *fakeController) View() dashboard.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *fakeController) Refresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

func (f *fakeController) Subscribe() chan struct{} {
	return f.updates
}

func (f *fakeController) set(v dashboard.View) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view = v
}

func scenarioStats() domain.DashboardStats {
	return domain.DashboardStats{
		TotalProviders:    1000,
		Validated:         800,
		NeedsReview:       150,
		Processing:        50,
		AccuracyRate:      94.2,
		AvgProcessingTime: 3.7,
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestView_LoadingShowsOnlyIndicator(t *testing.T) {
	m := New(newFakeController())

	view := m.View()

	assert.Contains(t, view, "Loading dashboard...")
	assert.NotContains(t, view, "Total Providers")
	assert.NotContains(t, view, "Recent Activity")
	assert.NotContains(t, view, "Loading activity...")
}

func TestView_StatsReadyActivityLoading(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl)

	ctrl.set(dashboard.View{
		Stats:    dashboard.Ready(scenarioStats(), time.Now()),
		Activity: dashboard.Loading[[]domain.ActivityEntry](),
	})
	m, cmd := update(t, m, updateMsg{})
	assert.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, "1,000")
	assert.Contains(t, view, "94.2%")
	assert.Contains(t, view, "3.7s")
	assert.Contains(t, view, "Validation Status Distribution")
	assert.Contains(t, view, "Loading activity...")
	assert.NotContains(t, view, "No recent activity")
}

func TestView_ActivityInOrderWithFallback(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl)

	ctrl.set(dashboard.View{
		Stats: dashboard.Ready(scenarioStats(), time.Now()),
		Activity: dashboard.Ready([]domain.ActivityEntry{
			{Description: "Batch 17 validated"},
			{},
			{Description: "Provider 42 flagged"},
		}, time.Now()),
	})
	m, _ = update(t, m, updateMsg{})

	view := m.View()
	first := strings.Index(view, "• Batch 17 validated")
	fallback := strings.Index(view, "• Activity")
	third := strings.Index(view, "• Provider 42 flagged")

	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, fallback)
	require.NotEqual(t, -1, third)
	assert.Less(t, first, fallback)
	assert.Less(t, fallback, third)
}

func TestView_EmptyActivity(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl)

	ctrl.set(dashboard.View{
		Stats:    dashboard.Ready(scenarioStats(), time.Now()),
		Activity: dashboard.Ready([]domain.ActivityEntry{}, time.Now()),
	})
	m, _ = update(t, m, updateMsg{})

	assert.Contains(t, m.View(), "No recent activity")
}

func TestView_StatsFailureBeforeData(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl)

	ctrl.set(dashboard.View{
		Stats:    dashboard.Loading[domain.DashboardStats]().Fail(errors.New("connection refused")),
		Activity: dashboard.Loading[[]domain.ActivityEntry](),
	})
	m, _ = update(t, m, updateMsg{})

	view := m.View()
	assert.Contains(t, view, "Unable to load dashboard statistics: connection refused")
	assert.Contains(t, view, "Press r to retry.")
	assert.NotContains(t, view, "Total Providers")
}

func TestView_StatsFailureKeepsLastData(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl)

	ctrl.set(dashboard.View{
		Stats:    dashboard.Ready(scenarioStats(), time.Now()).Fail(errors.New("503")),
		Activity: dashboard.Ready([]domain.ActivityEntry{}, time.Now()),
	})
	m, _ = update(t, m, updateMsg{})

	view := m.View()
	assert.Contains(t, view, "Refresh failed: 503")
	assert.Contains(t, view, "1,000")
}

func TestUpdate_RefreshKey(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	assert.Nil(t, cmd)
	assert.Equal(t, 1, ctrl.refreshes)
}

func TestUpdate_QuitKey(t *testing.T) {
	m := New(newFakeController())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestUpdate_ControllerClosedQuits(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl)

	close(ctrl.updates)
	msg := waitForUpdate(ctrl.updates)()
	assert.IsType(t, closedMsg{}, msg)

	_, cmd := update(t, m, msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWaitForUpdate_Ping(t *testing.T) {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}

	assert.IsType(t, updateMsg{}, waitForUpdate(ch)())
}

func TestRenderCards_NarrowTerminal(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 50})

	out := m.renderCards(dashboard.Cards(scenarioStats()))

	assert.Contains(t, out, "Total Providers")
	assert.Contains(t, out, "Avg Processing Time")
	assert.Greater(t, strings.Index(out, "Validated"), strings.Index(out, "Total Providers"))
}
