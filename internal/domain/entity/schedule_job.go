package entity

import "time"

// Schedule job status
const (
	JobStatusPending   = "PENDING"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
)

// ScheduleJob is the audit row of one background schedule generation.
type ScheduleJob struct {
	ID                  uint
	JobID               string
	FlightKey           string
	RecommendationStore string
	CalendarStore       string
	Status              string
	EventCount          int
	ErrorDetail         string
	StartedAt           *time.Time
	FinishedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
