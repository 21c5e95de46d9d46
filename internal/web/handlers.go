package web

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"validprop/internal/config"
	"validprop/internal/dashboard"
	"validprop/internal/domain"
	"validprop/internal/metrics"
	"validprop/internal/source/validation"
)

const reportsLimit = 50

// SnapshotLister reads archived stats snapshots, newest first.
type SnapshotLister interface {
	Recent(ctx context.Context, limit int) ([]domain.StatsSnapshot, error)
}

type Handlers struct {
	source    dashboard.Source
	dashboard config.DashboardConfig
	settings  *config.Config
	snapshots SnapshotLister
	metrics   *metrics.Metrics
	renderer  *renderer
	views     *viewRegistry
	logger    *slog.Logger
}

func NewHandlers(cfg Config) (*Handlers, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	settings := cfg.Settings
	if settings == nil {
		settings = &config.Config{}
	}

	return &Handlers{
		source:    cfg.Source,
		dashboard: cfg.Dashboard,
		settings:  settings,
		snapshots: cfg.Snapshots,
		metrics:   cfg.Metrics,
		renderer:  r,
		views:     newViewRegistry(),
		logger:    cfg.Logger.With("component", "web"),
	}, nil
}

func (h *Handlers) RedirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

type uploadPage struct {
	UploadURL string
}

func (h *Handlers) UploadPage(w http.ResponseWriter, r *http.Request) {
	data := newPageData("Upload Data", "/upload", uploadPage{
		UploadURL: h.settings.API.BaseURL + validation.UploadPath,
	})
	h.writePage(w, r, http.StatusOK, pageUpload, data)
}

type resultsPage struct {
	BatchID string
}

// ResultsPage serves both /results and /results/{batchId}.
func (h *Handlers) ResultsPage(w http.ResponseWriter, r *http.Request) {
	data := newPageData("Validation Results", "/results", resultsPage{
		BatchID: chi.URLParam(r, "batchId"),
	})
	h.writePage(w, r, http.StatusOK, pageResults, data)
}

type providerPage struct {
	ID string
}

func (h *Handlers) ProviderPage(w http.ResponseWriter, r *http.Request) {
	data := newPageData("Provider Details", "", providerPage{
		ID: chi.URLParam(r, "id"),
	})
	h.writePage(w, r, http.StatusOK, pageProvider, data)
}

type reportsPage struct {
	Enabled bool
	Error   string
	Rows    []reportRow
}

type reportRow struct {
	ReceivedAt        string
	TotalProviders    string
	Validated         string
	NeedsReview       string
	Processing        string
	AccuracyRate      string
	AvgProcessingTime string
}

func (h *Handlers) ReportsPage(w http.ResponseWriter, r *http.Request) {
	page := reportsPage{Enabled: h.snapshots != nil}

	if page.Enabled {
		snapshots, err := h.snapshots.Recent(r.Context(), reportsLimit)
		if err != nil {
			h.logger.Error("load snapshot history", "error", err)
			page.Error = err.Error()
		}
		for _, s := range snapshots {
			page.Rows = append(page.Rows, reportRow{
				ReceivedAt:        s.ReceivedAt.Format("2006-01-02 15:04:05"),
				TotalProviders:    dashboard.FormatCount(s.TotalProviders),
				Validated:         dashboard.FormatCount(s.Validated),
				NeedsReview:       dashboard.FormatCount(s.NeedsReview),
				Processing:        dashboard.FormatCount(s.Processing),
				AccuracyRate:      dashboard.FormatPercent(s.AccuracyRate),
				AvgProcessingTime: dashboard.FormatSeconds(s.AvgProcessingTime),
			})
		}
	}

	h.writePage(w, r, http.StatusOK, pageReports, newPageData("Reports", "/reports", page))
}

type setting struct {
	Name  string
	Value string
}

func (h *Handlers) SettingsPage(w http.ResponseWriter, r *http.Request) {
	cfg := h.settings
	rows := []setting{
		{Name: "API base URL", Value: cfg.API.BaseURL},
		{Name: "API timeout", Value: cfg.API.Timeout.String()},
		{Name: "Stats refresh interval", Value: h.dashboard.StatsInterval.String()},
		{Name: "Activity refresh interval", Value: h.dashboard.ActivityInterval.String()},
		{Name: "Retry initial backoff", Value: h.dashboard.Retry.InitialBackoff.String()},
		{Name: "Snapshot archive", Value: enabled(cfg.Database.Enabled)},
		{Name: "Refresh events", Value: enabled(cfg.RabbitMQ.Enabled)},
		{Name: "Active views", Value: strconv.Itoa(h.views.len())},
		{Name: "Log level", Value: cfg.LogLevel},
	}
	h.writePage(w, r, http.StatusOK, pageSettings, newPageData("Settings", "/settings", rows))
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func (h *Handlers) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, http.StatusNotFound, pageNotFound, newPageData("Page Not Found", "", nil))
}

func (h *Handlers) writePage(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	if err := h.renderer.writePage(w, status, page, data); err != nil {
		h.serverError(w, r, err)
	}
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("render page", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
