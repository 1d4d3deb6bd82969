package repository

import (
	"context"

	"jetlag-advisor/internal/domain/entity"
)

// HealthSnapshotRepository reads and replaces the persisted sensor snapshot.
type HealthSnapshotRepository interface {
	Load(ctx context.Context) (*entity.HealthSnapshot, error)
	Save(ctx context.Context, snapshot *entity.HealthSnapshot) error
}
