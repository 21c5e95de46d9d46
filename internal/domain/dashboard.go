package domain

import "time"

// DashboardStats is the aggregate statistics record served by the
// dashboard stats endpoint.
type DashboardStats struct {
	TotalProviders    float64 `json:"totalProviders"`
	Validated         float64 `json:"validated"`
	NeedsReview       float64 `json:"needsReview"`
	Processing        float64 `json:"processing"`
	AccuracyRate      float64 `json:"accuracyRate"`
	AvgProcessingTime float64 `json:"avgProcessingTime"`
}

// ActivityEntry is one server-ordered event from the recent activity
// endpoint. Only Description is relied upon.
type ActivityEntry struct {
	ID          string     `json:"id,omitempty"`
	Type        string     `json:"type,omitempty"`
	Description string     `json:"description"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// StatsSnapshot is a stats record as archived at the time it was received.
type StatsSnapshot struct {
	ID                int64     `db:"id"`
	TotalProviders    float64   `db:"total_providers"`
	Validated         float64   `db:"validated"`
	NeedsReview       float64   `db:"needs_review"`
	Processing        float64   `db:"processing"`
	AccuracyRate      float64   `db:"accuracy_rate"`
	AvgProcessingTime float64   `db:"avg_processing_time"`
	ReceivedAt        time.Time `db:"received_at"`
}

func NewStatsSnapshot(stats DashboardStats, receivedAt time.Time) StatsSnapshot {
	return StatsSnapshot{
		TotalProviders:    stats.TotalProviders,
		Validated:         stats.Validated,
		NeedsReview:       stats.NeedsReview,
		Processing:        stats.Processing,
		AccuracyRate:      stats.AccuracyRate,
		AvgProcessingTime: stats.AvgProcessingTime,
		ReceivedAt:        receivedAt,
	}
}

// Stats returns the snapshot as a plain stats record.
func (s StatsSnapshot) Stats() DashboardStats {
	return DashboardStats{
		TotalProviders:    s.TotalProviders,
		Validated:         s.Validated,
		NeedsReview:       s.NeedsReview,
		Processing:        s.Processing,
		AccuracyRate:      s.AccuracyRate,
		AvgProcessingTime: s.AvgProcessingTime,
	}
}

// Label is the text shown for the entry. Entries without a description
// read "Activity".
func (e ActivityEntry) Label() string {
	if e.Description == "" {
		return "Activity"
	}
	return e.Description
}
