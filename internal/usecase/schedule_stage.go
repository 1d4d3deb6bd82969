package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"
)

// ScheduleRequest names the inputs of one schedule job. The recommendation is read from the
// named store rather than passed in, so the job can run independently of the request.
type ScheduleRequest struct {
	JobID               string
	RunID               string
	Flight              entity.FlightRecord
	RecommendationStore string
	CalendarStore       string
}

// ScheduleStage generates the calendar from the stored recommendation.
type ScheduleStage struct {
	generator repository.Generator
	store     repository.BlobStore
	planner   entity.AgentDefinition
	publisher repository.CalendarPublisher
	jobRepo   repository.ScheduleJobRepository
	observers *Observers
	logger    logger.Logger
}

// NewScheduleStage creates a new schedule stage. publisher and jobRepo may be nil.
func NewScheduleStage(
	generator repository.Generator,
	store repository.BlobStore,
	planner entity.AgentDefinition,
	publisher repository.CalendarPublisher,
	jobRepo repository.ScheduleJobRepository,
	observers *Observers,
	logger logger.Logger,
) *ScheduleStage {
	return &ScheduleStage{
		generator: generator,
		store:     store,
		planner:   planner,
		publisher: publisher,
		jobRepo:   jobRepo,
		observers: observers,
		logger:    logger,
	}
}

// NewScheduleRequest builds a request against the default store names.
func NewScheduleRequest(runID string, flight entity.FlightRecord) ScheduleRequest {
	return ScheduleRequest{
		JobID:               uuid.NewString(),
		RunID:               runID,
		Flight:              flight,
		RecommendationStore: entity.RecommendationStore,
		CalendarStore:       entity.CalendarStore,
	}
}

// RecordPending writes the audit row before the job is handed to the runner.
func (s *ScheduleStage) RecordPending(ctx context.Context, req ScheduleRequest) {
	if s.jobRepo == nil {
		return
	}
	err := s.jobRepo.Create(ctx, &entity.ScheduleJob{
		JobID:               req.JobID,
		FlightKey:           req.Flight.FlightDesignator.Key(),
		RecommendationStore: req.RecommendationStore,
		CalendarStore:       req.CalendarStore,
		Status:              entity.JobStatusPending,
	})
	if err != nil {
		s.logger.Warn("Failed to record schedule job", "jobID", req.JobID, "error", err)
	}
}

// Execute is the detached entry point: errors are logged, never returned.
func (s *ScheduleStage) Execute(ctx context.Context, req ScheduleRequest) {
	if _, err := s.Run(ctx, req); err != nil {
		s.logger.Error("Schedule generation failed, calendar left unchanged",
			"jobID", req.JobID, "flight", req.Flight.FlightDesignator.Key(), "error", err)
	}
}

// Run generates and stores the calendar. On any failure the calendar store is left untouched.
func (s *ScheduleStage) Run(ctx context.Context, req ScheduleRequest) ([]entity.ScheduleEvent, error) {
	s.updateJob(ctx, req.JobID, entity.JobStatusRunning, 0, "")
	done := s.observers.stageStarted(ctx, req.RunID, entity.StageSchedule, req.Flight.FlightDesignator.Key())

	events, err := s.generate(ctx, req)
	if err != nil {
		done("", err)
		s.updateJob(ctx, req.JobID, entity.JobStatusFailed, 0, err.Error())
		return nil, err
	}
	done(fmt.Sprintf("%d events", len(events)), nil)
	s.updateJob(ctx, req.JobID, entity.JobStatusCompleted, len(events), "")

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events); err != nil {
			s.logger.Warn("Failed to publish calendar events", "jobID", req.JobID, "error", err)
		}
	}
	return events, nil
}

func (s *ScheduleStage) generate(ctx context.Context, req ScheduleRequest) ([]entity.ScheduleEvent, error) {
	raw, err := s.store.Get(ctx, req.RecommendationStore)
	if err != nil {
		return nil, entity.NewStorageIOError("read recommendations", err)
	}
	var rec entity.RecommendationResult
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, entity.NewStorageIOError("decode recommendations", err)
	}

	text, err := s.generator.Complete(ctx, entity.GenerationRequest{
		Agent:  s.planner,
		Prompt: schedulePrompt(req.Flight, &rec),
	})
	if err != nil {
		return nil, fmt.Errorf("schedule generation: %w", err)
	}

	events, err := ParseScheduleEvents(text)
	if err != nil {
		return nil, entity.NewSchemaValidationError("parse schedule", err)
	}
	events, err = s.normalizeEvents(events, req.Flight)
	if err != nil {
		return nil, entity.NewSchemaValidationError("normalize schedule", err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, entity.NewStorageIOError("encode calendar", err)
	}
	if err := s.store.Put(ctx, req.CalendarStore, data); err != nil {
		return nil, entity.NewStorageIOError("write calendar", err)
	}
	return events, nil
}

// normalizeEvents converts times to the canonical UTC layout, drops events with unreadable
// times, repairs missing or duplicate ids, adds the flight's own events, and sorts by start.
func (s *ScheduleStage) normalizeEvents(events []entity.ScheduleEvent, flight entity.FlightRecord) ([]entity.ScheduleEvent, error) {
	out := make([]entity.ScheduleEvent, 0, len(events)+2)
	seen := make(map[string]bool, len(events))

	for _, ev := range events {
		start, err := parseEventTime(ev.Start)
		if err != nil {
			s.logger.Warn("Dropping schedule event with invalid start", "title", ev.Title, "start", ev.Start)
			continue
		}
		end, err := parseEventTime(ev.End)
		if err != nil || end.Before(start) {
			end = start
		}
		ev.Start = start.Format(entity.CanonicalTimeLayout)
		ev.End = end.Format(entity.CanonicalTimeLayout)
		ev.Title = strings.TrimSpace(ev.Title)

		if ev.ID == "" || seen[ev.ID] {
			ev.ID = uuid.NewString()
		}
		seen[ev.ID] = true
		out = append(out, ev)
	}
	if len(out) == 0 {
		return nil, errors.New("no events with valid times")
	}

	for _, ev := range flightEvents(flight) {
		if !hasFlightEvent(out, ev) {
			out = append(out, ev)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].StartTime()
		b, _ := out[j].StartTime()
		return a.Before(b)
	})
	return out, nil
}

// flightEvents returns the departure and arrival as zero-length events.
func flightEvents(flight entity.FlightRecord) []entity.ScheduleEvent {
	designator := flight.FlightDesignator.CarrierCode + flight.FlightDesignator.FlightNumber
	return []entity.ScheduleEvent{
		{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("Flight %s departs %s", designator, flight.Departure.AirportCode),
			Start:       flight.Departure.ScheduledTimeISO,
			End:         flight.Departure.ScheduledTimeISO,
			Description: fmt.Sprintf("%s to %s", flight.Departure.AirportCode, flight.Arrival.AirportCode),
		},
		{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("Flight %s arrives %s", designator, flight.Arrival.AirportCode),
			Start:       flight.Arrival.ScheduledTimeISO,
			End:         flight.Arrival.ScheduledTimeISO,
			Description: fmt.Sprintf("%s to %s", flight.Departure.AirportCode, flight.Arrival.AirportCode),
		},
	}
}

// hasFlightEvent reports whether the generation already produced this flight event. Other events
// at the same time, such as boarding, do not count.
func hasFlightEvent(events []entity.ScheduleEvent, flightEvent entity.ScheduleEvent) bool {
	for _, ev := range events {
		if ev.Start == flightEvent.Start && strings.EqualFold(ev.Title, flightEvent.Title) {
			return true
		}
	}
	return false
}

func parseEventTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layouts := range [][]string{offsetLayouts, localLayouts} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.UTC(), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}

func (s *ScheduleStage) updateJob(ctx context.Context, jobID, status string, eventCount int, detail string) {
	if s.jobRepo == nil {
		return
	}
	if err := s.jobRepo.UpdateStatus(ctx, jobID, status, eventCount, detail); err != nil {
		s.logger.Warn("Failed to update schedule job", "jobID", jobID, "status", status, "error", err)
	}
}
