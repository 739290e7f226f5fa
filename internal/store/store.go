package store

import (
	"context"
	"time"
)

// Snapshot is one stored payload.
type Snapshot struct {
	Key       string
	FetchedAt time.Time
	Payload   string
}

type Store interface {
	SaveSnapshots(ctx context.Context, snapshots []Snapshot) error
	ListSnapshots(ctx context.Context, key string) ([]Snapshot, error)
	Close() error
}

type NopStore struct{}

func (s *NopStore) SaveSnapshots(ctx context.Context, snapshots []Snapshot) error {
	_ = ctx
	_ = snapshots
	return nil
}

func (s *NopStore) ListSnapshots(ctx context.Context, key string) ([]Snapshot, error) {
	_ = ctx
	_ = key
	return nil, nil
}

func (s *NopStore) Close() error {
	return nil
}
