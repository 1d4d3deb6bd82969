package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	_ "time/tzdata"

	"jetlag-advisor/internal/domain/entity"
)

type MockAirlineRepository struct {
	GetByCodeFunc func(ctx context.Context, code string) (*entity.Airline, error)
}

func (m *MockAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	return m.GetByCodeFunc(ctx, code)
}

type MockTimezoneRepository struct {
	zones map[string]string
}

func (m *MockTimezoneRepository) GetByAirportCode(_ context.Context, code string) (*entity.Timezone, error) {
	tz, ok := m.zones[code]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &entity.Timezone{AirportCode: code, TzName: tz}, nil
}

func TestEstimateDirection(t *testing.T) {
	tests := []struct {
		name     string
		dep, arr string
		want     TravelDirection
	}{
		{"arrival hour later", "2025-03-31T08:00:00Z", "2025-03-31T16:00:00Z", DirectionEastward},
		{"arrival hour earlier next day", "2025-03-31T21:55:00Z", "2025-04-01T13:10:00Z", DirectionWestward},
		{"same hour", "2025-03-31T08:05:00Z", "2025-04-01T08:50:00Z", DirectionWestward},
		{"unparseable", "garbage", "2025-04-01T08:50:00Z", DirectionWestward},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := entity.FlightRecord{
				Departure: entity.FlightPoint{ScheduledTimeISO: tt.dep},
				Arrival:   entity.FlightPoint{ScheduledTimeISO: tt.arr},
			}
			if got := EstimateDirection(record); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildContextEnrichment(t *testing.T) {
	ref := NewReferenceData(
		&MockAirlineRepository{GetByCodeFunc: func(ctx context.Context, code string) (*entity.Airline, error) {
			return &entity.Airline{Code: code, Name: "United Airlines"}, nil
		}},
		&MockTimezoneRepository{zones: map[string]string{"SFO": "America/Los_Angeles"}},
		testLogger,
	)

	tc := ref.BuildContext(context.Background(), ua2116Record())
	if tc.AirlineName != "United Airlines" {
		t.Fatalf("airline = %q", tc.AirlineName)
	}
	if !strings.HasPrefix(tc.DepartureLocal, "2025-03-31 14:55") {
		t.Fatalf("departure local = %q", tc.DepartureLocal)
	}
	if tc.ArrivalLocal != "" {
		t.Fatalf("unknown airport should leave local time empty, got %q", tc.ArrivalLocal)
	}
	if tc.Direction != EstimateDirection(ua2116Record()) {
		t.Fatalf("enrichment must not change the direction estimate")
	}
	if !strings.Contains(flightSummary(tc), "United Airlines") {
		t.Fatalf("summary lacks airline name")
	}
}

func TestBuildContextWithoutReferenceData(t *testing.T) {
	var ref *ReferenceData
	tc := ref.BuildContext(context.Background(), ua2116Record())
	if tc.AirlineName != "" || tc.Direction == "" {
		t.Fatalf("unexpected context %+v", tc)
	}

	failing := NewReferenceData(&MockAirlineRepository{GetByCodeFunc: func(ctx context.Context, code string) (*entity.Airline, error) {
		return nil, errors.New("connection refused")
	}}, nil, testLogger)
	if tc := failing.BuildContext(context.Background(), ua2116Record()); tc.AirlineName != "" {
		t.Fatalf("lookup failure should leave airline empty")
	}
}
