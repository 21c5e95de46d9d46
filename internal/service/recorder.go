package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"validprop/internal/config"
	"validprop/internal/domain"
	"validprop/internal/metrics"
)

// Recorder archives stats snapshots and announces them. It is attached to a
// dashboard controller as its stats observer. Both the store and the
// publisher are optional.
type Recorder struct {
	snapshots SnapshotStore
	txManager TransactionManager
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	config    config.DatabaseConfig
}

func NewRecorder(
	snapshots SnapshotStore,
	txManager TransactionManager,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg config.DatabaseConfig,
) *Recorder {
	return &Recorder{
		snapshots: snapshots,
		txManager: txManager,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With("component", "recorder"),
		config:    cfg,
	}
}

// Enabled reports whether the recorder has anywhere to send snapshots.
func (r *Recorder) Enabled() bool {
	return r.snapshots != nil || r.publisher != nil
}

func (r *Recorder) StatsRefreshed(ctx context.Context, stats domain.DashboardStats, receivedAt time.Time) error {
	snapshot := domain.NewStatsSnapshot(stats, receivedAt)

	if r.snapshots != nil {
		pruned, err := r.archive(ctx, &snapshot)
		if err != nil {
			return fmt.Errorf("archive snapshot: %w", err)
		}
		r.metrics.IncrementSnapshotsStored()
		r.logger.Debug("snapshot archived", "snapshot_id", snapshot.ID, "pruned", pruned)
	}

	if r.publisher != nil {
		if err := r.publisher.PublishStats(ctx, &snapshot); err != nil {
			return fmt.Errorf("publish snapshot: %w", err)
		}
		r.metrics.IncrementEventsPublished()
	}

	r.logger.Info("stats snapshot recorded",
		"total_providers", stats.TotalProviders,
		"accuracy_rate", stats.AccuracyRate,
		"received_at", receivedAt,
	)

	return nil
}

func (r *Recorder) archive(ctx context.Context, snapshot *domain.StatsSnapshot) (int64, error) {
	var pruned int64
	err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := r.snapshots.Insert(txCtx, snapshot); err != nil {
			return fmt.Errorf("insert: %w", err)
		}

		if r.config.Retain <= 0 {
			return nil
		}

		n, err := r.snapshots.Prune(txCtx, r.config.Retain)
		if err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		pruned = n
		return nil
	})
	return pruned, err
}

// Close releases the publisher, if any.
func (r *Recorder) Close() error {
	if r.publisher == nil {
		return nil
	}
	return r.publisher.Close()
}
