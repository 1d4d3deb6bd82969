package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"
)

// Schedule status reported in the pipeline result.
const (
	ScheduleStatusLaunched = "launched"
	ScheduleStatusSkipped  = "skipped"
)

// PipelineResult is what the synchronous request path returns.
type PipelineResult struct {
	RunID           string                       `json:"run_id"`
	Flight          entity.FlightRecord          `json:"flight_details"`
	Recommendations *entity.RecommendationResult `json:"recommendations"`
	HealthSignal    entity.HealthSignal          `json:"health_signal"`
	Direction       TravelDirection              `json:"travel_direction"`
	ScheduleStatus  string                       `json:"schedule_status"`
	ScheduleJobID   string                       `json:"schedule_job_id,omitempty"`
}

// Orchestrator runs flight lookup and health correlation, then the recommendation stage, and
// hands the schedule stage to the launcher when the recommendation was stored.
type Orchestrator struct {
	lookup         repository.FlightLookup
	normalizer     *FlightNormalizer
	correlator     *HealthCorrelator
	referenceData  *ReferenceData
	recommendation *RecommendationStage
	schedule       *ScheduleStage
	launcher       TaskLauncher
	observers      *Observers
	logger         logger.Logger
}

// NewOrchestrator creates a new pipeline orchestrator
func NewOrchestrator(
	lookup repository.FlightLookup,
	normalizer *FlightNormalizer,
	correlator *HealthCorrelator,
	referenceData *ReferenceData,
	recommendation *RecommendationStage,
	schedule *ScheduleStage,
	launcher TaskLauncher,
	observers *Observers,
	logger logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		lookup:         lookup,
		normalizer:     normalizer,
		correlator:     correlator,
		referenceData:  referenceData,
		recommendation: recommendation,
		schedule:       schedule,
		launcher:       launcher,
		observers:      observers,
		logger:         logger,
	}
}

// Run executes the synchronous part of the pipeline. It returns once recommendations are ready;
// the schedule job, if launched, continues in the background.
func (o *Orchestrator) Run(ctx context.Context, designator entity.FlightDesignator) (*PipelineResult, error) {
	runID := uuid.NewString()
	start := time.Now()

	result, err := o.run(ctx, runID, designator)

	detail := ""
	if result != nil {
		detail = result.ScheduleStatus
	}
	o.observers.Notify(ctx, entity.PipelineEvent{
		Type:      entity.EventPipelineCompleted,
		RunID:     runID,
		FlightKey: designator.Key(),
		Duration:  time.Since(start),
		Detail:    detail,
		Err:       err,
	})
	return result, err
}

func (o *Orchestrator) run(ctx context.Context, runID string, designator entity.FlightDesignator) (*PipelineResult, error) {
	var (
		record entity.FlightRecord
		signal entity.HealthSignal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		done := o.observers.stageStarted(gctx, runID, entity.StageFlightLookup, designator.Key())
		r, err := o.fetchFlight(gctx, designator)
		done(r.Departure.AirportCode+"-"+r.Arrival.AirportCode, err)
		if err != nil {
			return err
		}
		record = r
		return nil
	})
	g.Go(func() error {
		done := o.observers.stageStarted(gctx, runID, entity.StageHealthSignal, designator.Key())
		signal = o.correlator.Signal(gctx)
		done(signal.Classification(), nil)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tc := o.referenceData.BuildContext(ctx, record)
	outcome, err := o.recommendation.Run(ctx, runID, tc, signal)
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{
		RunID:           runID,
		Flight:          record,
		Recommendations: outcome.Result,
		HealthSignal:    signal,
		Direction:       tc.Direction,
		ScheduleStatus:  ScheduleStatusSkipped,
	}

	if !outcome.Stored {
		o.observers.Notify(ctx, entity.PipelineEvent{
			Type:      entity.EventScheduleSkipped,
			RunID:     runID,
			Stage:     entity.StageSchedule,
			FlightKey: designator.Key(),
			Err:       outcome.StoreErr,
		})
		return result, nil
	}

	req := NewScheduleRequest(runID, record)
	o.schedule.RecordPending(ctx, req)
	o.launcher.Submit("schedule:"+req.JobID, func(taskCtx context.Context) {
		o.schedule.Execute(taskCtx, req)
	})
	result.ScheduleStatus = ScheduleStatusLaunched
	result.ScheduleJobID = req.JobID
	return result, nil
}

// FetchFlight looks up and normalizes one flight without running the stages.
func (o *Orchestrator) FetchFlight(ctx context.Context, designator entity.FlightDesignator) (entity.FlightRecord, error) {
	return o.fetchFlight(ctx, designator)
}

func (o *Orchestrator) fetchFlight(ctx context.Context, designator entity.FlightDesignator) (entity.FlightRecord, error) {
	payload, err := o.lookup.LookupSchedule(ctx, designator.CarrierCode, designator.FlightNumber, designator.ScheduledDepartureDate)
	if err != nil {
		return entity.FlightRecord{}, fmt.Errorf("flight lookup %s: %w", designator.Key(), err)
	}
	return o.normalizer.Normalize(designator, payload)
}
