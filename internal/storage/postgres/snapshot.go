package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"validprop/internal/domain"
)

type SnapshotStore struct {
	db *sqlx.DB
}

func NewSnapshotStore(db *sqlx.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) Insert(ctx context.Context, snapshot *domain.StatsSnapshot) (int64, error) {
	query := `
		INSERT INTO stats_snapshots (
			total_providers, validated, needs_review, processing,
			accuracy_rate, avg_processing_time, received_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id`

	var id int64
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		snapshot.TotalProviders,
		snapshot.Validated,
		snapshot.NeedsReview,
		snapshot.Processing,
		snapshot.AccuracyRate,
		snapshot.AvgProcessingTime,
		snapshot.ReceivedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	snapshot.ID = id
	return id, nil
}

// Recent returns up to limit snapshots, newest first.
func (s *SnapshotStore) Recent(ctx context.Context, limit int) ([]domain.StatsSnapshot, error) {
	query := `
		SELECT id, total_providers, validated, needs_review, processing,
			accuracy_rate, avg_processing_time, received_at
		FROM stats_snapshots
		ORDER BY received_at DESC, id DESC
		LIMIT $1`

	snapshots := []domain.StatsSnapshot{}
	if err := s.db.SelectContext(ctx, &snapshots, query, limit); err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	return snapshots, nil
}

// Prune deletes all but the newest keep snapshots.
func (s *SnapshotStore) Prune(ctx context.Context, keep int) (int64, error) {
	query := `
		DELETE FROM stats_snapshots
		WHERE id NOT IN (
			SELECT id FROM stats_snapshots
			ORDER BY received_at DESC, id DESC
			LIMIT $1
		)`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
