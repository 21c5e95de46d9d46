package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	"validprop/internal/dashboard"
	"validprop/internal/domain"
)

// dashboardContent is the render model of the live part of the dashboard.
type dashboardContent struct {
	ViewID string

	Pending      bool
	Unavailable  bool
	StatsError   string
	Cards        []dashboard.StatCard
	Distribution []dashboard.Slice
	UpdatedAt    time.Time

	ActivityLoading     bool
	ActivityUnavailable bool
	ActivityError       string
	Activity            []string
}

func newDashboardContent(viewID string, v dashboard.View) dashboardContent {
	c := dashboardContent{
		ViewID:              viewID,
		Pending:             v.StatsPending(),
		Unavailable:         v.StatsUnavailable(),
		StatsError:          v.Stats.Reason(),
		ActivityLoading:     v.Activity.IsLoading(),
		ActivityUnavailable: v.Activity.IsFailed() && !v.Activity.HasData,
		ActivityError:       v.Activity.Reason(),
	}

	if v.Stats.HasData {
		c.Cards = dashboard.Cards(v.Stats.Data)
		c.Distribution = dashboard.Distribution(v.Stats.Data)
		c.UpdatedAt = v.Stats.UpdatedAt
	}

	c.Activity = make([]string, 0, len(v.Activity.Data))
	for _, e := range v.Activity.Data {
		c.Activity = append(c.Activity, e.Label())
	}

	return c
}

// DashboardPage renders the page shell. Until its update stream delivers
// the first stats response only the loading indicator is shown.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	viewID := uuid.NewString()
	initial := dashboard.View{
		Stats:    dashboard.Loading[domain.DashboardStats](),
		Activity: dashboard.Loading[[]domain.ActivityEntry](),
	}

	data := newPageData("Dashboard", "/dashboard", newDashboardContent(viewID, initial))
	if err := h.renderer.writePage(w, http.StatusOK, pageDashboard, data); err != nil {
		h.serverError(w, r, err)
	}
}

// DashboardUpdates is the long-lived SSE stream of one dashboard view. The
// view's controller is mounted when the stream opens and closed when it
// ends, so nothing fetched afterwards reaches the page.
func (h *Handlers) DashboardUpdates(w http.ResponseWriter, r *http.Request) {
	viewID := r.URL.Query().Get("view")
	if viewID == "" {
		viewID = uuid.NewString()
	}

	ctrl := dashboard.New(h.source, h.dashboard, h.logger,
		dashboard.WithID(viewID),
		dashboard.WithMetrics(h.metrics),
	)
	updates := ctrl.Subscribe()

	h.views.add(viewID, ctrl)
	defer h.views.remove(viewID, ctrl)
	defer ctrl.Close()

	sse := datastar.NewSSE(w, r)

	ctx := r.Context()
	if err := ctrl.Mount(ctx); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := h.patchDashboard(sse, viewID, ctrl.View()); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) patchDashboard(sse *datastar.ServerSentEventGenerator, viewID string, v dashboard.View) error {
	fragment, err := h.renderer.render(pageDashboard, "dashboard-content", newDashboardContent(viewID, v))
	if err != nil {
		return err
	}
	return sse.PatchElements(string(fragment))
}

// DashboardRefresh fetches both sources of a view now.
func (h *Handlers) DashboardRefresh(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.views.get(r.URL.Query().Get("view"))
	if !ok {
		http.Error(w, "unknown dashboard view", http.StatusNotFound)
		return
	}
	ctrl.Refresh()
	w.WriteHeader(http.StatusNoContent)
}
