package repository

import (
	"context"

	"jetlag-advisor/internal/domain/entity"
)

// ScheduleJobRepository keeps an audit trail of background schedule jobs.
type ScheduleJobRepository interface {
	Create(ctx context.Context, job *entity.ScheduleJob) error
	UpdateStatus(ctx context.Context, jobID, status string, eventCount int, errorDetail string) error
	FindByJobID(ctx context.Context, jobID string) (*entity.ScheduleJob, error)
}
