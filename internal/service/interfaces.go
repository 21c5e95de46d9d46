package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"validprop/internal/domain"
)

type SnapshotStore interface {
	Insert(ctx context.Context, snapshot *domain.StatsSnapshot) (int64, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishStats(ctx context.Context, snapshot *domain.StatsSnapshot) error
	Close() error
}
