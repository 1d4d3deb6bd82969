package usecase

import (
	"context"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/pkg/logger"
	"jetlag-advisor/pkg/metrics"
)

// PipelineObserver is notified at pipeline lifecycle points. It cannot affect the outcome.
type PipelineObserver interface {
	OnEvent(ctx context.Context, event entity.PipelineEvent)
}

// Observers fans an event out to every observer, recovering panics so a broken observer
// never reaches the pipeline.
type Observers struct {
	observers []PipelineObserver
	logger    logger.Logger
}

// NewObservers creates a new observer set. Nil entries are ignored.
func NewObservers(logger logger.Logger, observers ...PipelineObserver) *Observers {
	o := &Observers{logger: logger}
	for _, obs := range observers {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
	return o
}

// Notify delivers event to every observer.
func (o *Observers) Notify(ctx context.Context, event entity.PipelineEvent) {
	if o == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	for _, obs := range o.observers {
		o.deliver(ctx, obs, event)
	}
}

func (o *Observers) deliver(ctx context.Context, obs PipelineObserver, event entity.PipelineEvent) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Observer panicked", "event", event.Type, "stage", event.Stage, "panic", r)
		}
	}()
	obs.OnEvent(ctx, event)
}

// stageStarted notifies and returns a func that reports completion with the elapsed time.
func (o *Observers) stageStarted(ctx context.Context, runID, stage, flightKey string) func(detail string, err error) {
	start := time.Now()
	o.Notify(ctx, entity.PipelineEvent{Type: entity.EventStageStarted, RunID: runID, Stage: stage, FlightKey: flightKey})
	return func(detail string, err error) {
		o.Notify(ctx, entity.PipelineEvent{
			Type:      entity.EventStageCompleted,
			RunID:     runID,
			Stage:     stage,
			FlightKey: flightKey,
			Duration:  time.Since(start),
			Detail:    detail,
			Err:       err,
		})
	}
}

// LoggingObserver narrates the pipeline in the service log.
type LoggingObserver struct {
	logger logger.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger logger.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (l *LoggingObserver) OnEvent(_ context.Context, event entity.PipelineEvent) {
	log := l.logger.With("runID", event.RunID, "flight", event.FlightKey)
	switch event.Type {
	case entity.EventStageStarted:
		log.Info("Stage started", "stage", event.Stage)
	case entity.EventStageCompleted:
		if event.Err != nil {
			log.Error("Stage failed", "stage", event.Stage, "duration", event.Duration, "error", event.Err)
			return
		}
		log.Info("Stage completed", "stage", event.Stage, "duration", event.Duration, "detail", event.Detail)
	case entity.EventScheduleSkipped:
		log.Warn("Schedule generation skipped", "reason", event.Err)
	case entity.EventPipelineCompleted:
		if event.Err != nil {
			log.Error("Pipeline failed", "duration", event.Duration, "error", event.Err)
			return
		}
		log.Info("Pipeline completed", "duration", event.Duration, "schedule", event.Detail)
	}
}

// MetricsObserver records stage and pipeline metrics.
type MetricsObserver struct {
	metrics *metrics.Metrics
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver(m *metrics.Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (m *MetricsObserver) OnEvent(_ context.Context, event entity.PipelineEvent) {
	switch event.Type {
	case entity.EventStageCompleted:
		m.metrics.ObserveStage(event.Stage, event.Duration, event.Err)
		switch event.Stage {
		case entity.StageHealthSignal:
			m.metrics.ObserveHealthSignal(event.Detail)
		case entity.StageSchedule:
			if event.Err != nil {
				m.metrics.ObserveScheduleJob(metrics.OutcomeError)
				m.metrics.IncError(entity.StageSchedule)
			} else {
				m.metrics.ObserveScheduleJob(metrics.OutcomeSuccess)
			}
		}
	case entity.EventScheduleSkipped:
		m.metrics.ObserveScheduleJob(metrics.OutcomeSkipped)
	case entity.EventPipelineCompleted:
		m.metrics.ObservePipeline(event.Err)
		if event.Err != nil {
			m.metrics.IncError("pipeline")
		}
	}
}
