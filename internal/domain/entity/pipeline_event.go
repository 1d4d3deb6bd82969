package entity

import "time"

// Pipeline stages
const (
	StageFlightLookup    = "flight_lookup"
	StageHealthSignal    = "health_signal"
	StageContextAnalysis = "context_analysis"
	StageRecommendation  = "health_recommendation"
	StageSchedule        = "schedule"
)

// PipelineEventType is the lifecycle point an observer is notified at.
type PipelineEventType string

const (
	EventStageStarted      PipelineEventType = "stage_started"
	EventStageCompleted    PipelineEventType = "stage_completed"
	EventPipelineCompleted PipelineEventType = "pipeline_completed"
	EventScheduleSkipped   PipelineEventType = "schedule_skipped"
)

// PipelineEvent is delivered to observers. Observers cannot influence the pipeline.
type PipelineEvent struct {
	Type      PipelineEventType
	RunID     string
	Stage     string
	FlightKey string
	Duration  time.Duration
	Detail    string
	Err       error
	At        time.Time
}
