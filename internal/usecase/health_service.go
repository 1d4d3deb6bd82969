package usecase

import (
	"context"
	"fmt"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"
)

// HealthService accepts sensor uploads and exposes the current health signal.
type HealthService struct {
	snapshots  repository.HealthSnapshotRepository
	correlator *HealthCorrelator
	logger     logger.Logger
}

// NewHealthService creates a new health service
func NewHealthService(snapshots repository.HealthSnapshotRepository, correlator *HealthCorrelator, logger logger.Logger) *HealthService {
	return &HealthService{
		snapshots:  snapshots,
		correlator: correlator,
		logger:     logger,
	}
}

// Ingest validates and replaces the stored snapshot.
func (s *HealthService) Ingest(ctx context.Context, snapshot *entity.HealthSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("invalid health data: %w", err)
	}
	snapshot.ReceivedAt = time.Now().UTC()

	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return entity.NewStorageIOError("write health data", err)
	}

	samples := 0
	for _, record := range snapshot.HeartRateRecords {
		samples += len(record.Samples)
	}
	s.logger.Info("Health data ingested", "sleepSessions", len(snapshot.SleepRecords), "heartRateSamples", samples)
	return nil
}

// Signal returns the signal the next pipeline run would use.
func (s *HealthService) Signal(ctx context.Context) entity.HealthSignal {
	return s.correlator.Signal(ctx)
}
