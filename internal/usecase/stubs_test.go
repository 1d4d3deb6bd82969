package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/pkg/logger"
)

var testLogger = logger.NewNop()

type MockGenerator struct {
	CompleteFunc               func(ctx context.Context, req entity.GenerationRequest) (string, error)
	CompleteRecommendationFunc func(ctx context.Context, req entity.GenerationRequest) (*entity.RecommendationResult, error)

	mu       sync.Mutex
	requests []entity.GenerationRequest
}

func (m *MockGenerator) Complete(ctx context.Context, req entity.GenerationRequest) (string, error) {
	m.record(req)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "analysis", nil
}

func (m *MockGenerator) CompleteRecommendation(ctx context.Context, req entity.GenerationRequest) (*entity.RecommendationResult, error) {
	m.record(req)
	if m.CompleteRecommendationFunc != nil {
		return m.CompleteRecommendationFunc(ctx, req)
	}
	return &entity.RecommendationResult{
		SleepSchedule: entity.SleepSchedule{AdjustmentPeriodAdvice: "Shift about 1 hour per day."},
	}, nil
}

func (m *MockGenerator) record(req entity.GenerationRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
}

func (m *MockGenerator) Requests() []entity.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.GenerationRequest(nil), m.requests...)
}

// memoryStore is an in-memory BlobStore with injectable write faults.
type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	PutErrs map[string]error
	GetErr  error
	puts    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}, PutErrs: map[string]error{}}
}

func (s *memoryStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	data, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("store %q: %w", name, entity.ErrNotFound)
	}
	return data, nil
}

func (s *memoryStore) Put(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.PutErrs[name]; err != nil {
		return err
	}
	s.data[name] = append([]byte(nil), data...)
	s.puts++
	return nil
}

func (s *memoryStore) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[name]
	return ok
}

type MockHealthSnapshots struct {
	LoadFunc func(ctx context.Context) (*entity.HealthSnapshot, error)
	saved    *entity.HealthSnapshot
}

func (m *MockHealthSnapshots) Load(ctx context.Context) (*entity.HealthSnapshot, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	if m.saved != nil {
		return m.saved, nil
	}
	return nil, fmt.Errorf("health data: %w", entity.ErrNotFound)
}

func (m *MockHealthSnapshots) Save(_ context.Context, snapshot *entity.HealthSnapshot) error {
	m.saved = snapshot
	return nil
}

type MockFlightLookup struct {
	LookupScheduleFunc func(ctx context.Context, carrierCode, flightNumber, departureDate string) (*entity.RawSchedulePayload, error)
}

func (m *MockFlightLookup) LookupSchedule(ctx context.Context, carrierCode, flightNumber, departureDate string) (*entity.RawSchedulePayload, error) {
	return m.LookupScheduleFunc(ctx, carrierCode, flightNumber, departureDate)
}

// recordingLauncher runs nothing; it records submissions so tests can run them explicitly.
type recordingLauncher struct {
	mu    sync.Mutex
	tasks []func(ctx context.Context)
	names []string
}

func (l *recordingLauncher) Submit(name string, task func(ctx context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
	l.tasks = append(l.tasks, task)
}

func (l *recordingLauncher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []entity.PipelineEvent
}

func (o *recordingObserver) OnEvent(_ context.Context, event entity.PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) types() []entity.PipelineEventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []entity.PipelineEventType
	for _, e := range o.events {
		out = append(out, e.Type)
	}
	return out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// ua2116Payload is the provider document for UA2116 departing 2025-03-31.
func ua2116Payload() *entity.RawSchedulePayload {
	return &entity.RawSchedulePayload{
		Data: []entity.RawDatedFlight{{
			Type:                   "DatedFlight",
			ScheduledDepartureDate: "2025-03-31",
			FlightDesignator:       entity.RawFlightDesignator{CarrierCode: "UA", FlightNumber: "2116"},
			FlightPoints: []entity.RawFlightPoint{
				{IataCode: "SFO", Departure: &entity.RawTimings{Timings: []entity.RawTiming{{Qualifier: "STD", Value: "2025-03-31T14:55-07:00"}}}},
				{IataCode: "HNL", Arrival: &entity.RawTimings{Timings: []entity.RawTiming{{Qualifier: "STA", Value: "2025-04-01T03:10-10:00"}}}},
			},
			Segments: []entity.RawSegment{
				{BoardPointIataCode: "SFO", OffPointIataCode: "HNL", ScheduledSegmentDuration: "PT15H15M"},
				{BoardPointIataCode: "HNL", OffPointIataCode: "GUM", ScheduledSegmentDuration: "PT7H"},
			},
			Legs: []entity.RawLeg{
				{BoardPointIataCode: "SFO", OffPointIataCode: "HNL", ScheduledLegDuration: "PT15H15M", AircraftEquipment: &entity.RawAircraftEquipment{AircraftType: "789"}},
			},
		}},
	}
}

func ua2116Record() entity.FlightRecord {
	return entity.FlightRecord{
		FlightDesignator: entity.FlightDesignator{CarrierCode: "UA", FlightNumber: "2116", ScheduledDepartureDate: "2025-03-31"},
		Departure:        entity.FlightPoint{AirportCode: "SFO", ScheduledTimeISO: "2025-03-31T21:55:00Z"},
		Arrival:          entity.FlightPoint{AirportCode: "HNL", ScheduledTimeISO: "2025-04-01T13:10:00Z"},
		Legs:             []entity.Leg{{BoardPointIataCode: "SFO", OffPointIataCode: "HNL", ScheduledLegDuration: "PT15H15M"}},
	}
}

func highSignal() entity.HealthSignal {
	avg := 82.5
	return entity.HealthSignal{AverageSleepHeartRate: &avg, IsHigh: true, WindowDays: 3}
}
