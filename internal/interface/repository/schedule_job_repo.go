package repository

import (
	"context"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"

	"gorm.io/gorm"
)

var _ repository.ScheduleJobRepository = (*GormScheduleJobRepository)(nil)

// GormScheduleJobRepository implements the ScheduleJobRepository interface
type GormScheduleJobRepository struct {
	db *gorm.DB
}

// NewGormScheduleJobRepository creates a new GORM schedule job repository
func NewGormScheduleJobRepository(db *gorm.DB) *GormScheduleJobRepository {
	return &GormScheduleJobRepository{
		db: db,
	}
}

// ScheduleJobs GORM model for database mapping
type ScheduleJobs struct {
	gorm.Model
	JobID               string `gorm:"column:job_id;uniqueIndex"`
	FlightKey           string `gorm:"column:flight_key;index"`
	RecommendationStore string `gorm:"column:recommendation_store"`
	CalendarStore       string `gorm:"column:calendar_store"`
	Status              string `gorm:"column:status"`
	EventCount          int    `gorm:"column:event_count"`
	ErrorDetail         string `gorm:"column:error_detail"`
	StartedAt           *time.Time
	FinishedAt          *time.Time
}

// TableName overrides the default table name
func (ScheduleJobs) TableName() string {
	return "schedule_jobs"
}

// AutoMigrate creates or updates the schedule_jobs table.
func (r *GormScheduleJobRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&ScheduleJobs{})
}

// Create inserts a new schedule job into the database
func (r *GormScheduleJobRepository) Create(ctx context.Context, job *entity.ScheduleJob) error {
	model := ScheduleJobs{
		JobID:               job.JobID,
		FlightKey:           job.FlightKey,
		RecommendationStore: job.RecommendationStore,
		CalendarStore:       job.CalendarStore,
		Status:              job.Status,
		EventCount:          job.EventCount,
		ErrorDetail:         job.ErrorDetail,
		StartedAt:           job.StartedAt,
		FinishedAt:          job.FinishedAt,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	// Update the entity with the generated ID
	job.ID = model.ID
	job.CreatedAt = model.CreatedAt
	job.UpdatedAt = model.UpdatedAt

	return nil
}

// UpdateStatus moves a job to a new status and stamps start/finish times.
func (r *GormScheduleJobRepository) UpdateStatus(ctx context.Context, jobID, status string, eventCount int, errorDetail string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       status,
		"event_count":  eventCount,
		"error_detail": errorDetail,
	}
	switch status {
	case entity.JobStatusRunning:
		updates["started_at"] = now
	case entity.JobStatusCompleted, entity.JobStatusFailed:
		updates["finished_at"] = now
	}

	result := r.db.WithContext(ctx).Model(&ScheduleJobs{}).Where("job_id = ?", jobID).Updates(updates)
	return result.Error
}

// FindByJobID finds a schedule job by its job id
func (r *GormScheduleJobRepository) FindByJobID(ctx context.Context, jobID string) (*entity.ScheduleJob, error) {
	var job ScheduleJobs
	result := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job)
	if result.Error != nil {
		return nil, lookupError("schedule job", jobID, result.Error)
	}

	// Convert to domain entity
	return &entity.ScheduleJob{
		ID:                  job.ID,
		JobID:               job.JobID,
		FlightKey:           job.FlightKey,
		RecommendationStore: job.RecommendationStore,
		CalendarStore:       job.CalendarStore,
		Status:              job.Status,
		EventCount:          job.EventCount,
		ErrorDetail:         job.ErrorDetail,
		StartedAt:           job.StartedAt,
		FinishedAt:          job.FinishedAt,
		CreatedAt:           job.CreatedAt,
		UpdatedAt:           job.UpdatedAt,
	}, nil
}
