package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
)

// BlobHealthSnapshotRepository stores the health snapshot as one JSON document.
type BlobHealthSnapshotRepository struct {
	store repository.BlobStore
	name  string
}

// NewBlobHealthSnapshotRepository creates a snapshot repository on top of a named store.
func NewBlobHealthSnapshotRepository(store repository.BlobStore) repository.HealthSnapshotRepository {
	return &BlobHealthSnapshotRepository{
		store: store,
		name:  entity.HealthDataStore,
	}
}

// Load returns the snapshot, or an error wrapping entity.ErrNotFound when none was ingested yet.
func (r *BlobHealthSnapshotRepository) Load(ctx context.Context) (*entity.HealthSnapshot, error) {
	data, err := r.store.Get(ctx, r.name)
	if err != nil {
		return nil, err
	}

	var snapshot entity.HealthSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode health snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save replaces the snapshot.
func (r *BlobHealthSnapshotRepository) Save(ctx context.Context, snapshot *entity.HealthSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode health snapshot: %w", err)
	}
	return r.store.Put(ctx, r.name, data)
}
