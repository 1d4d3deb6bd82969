package usecase

import (
	"errors"
	"regexp"
	"testing"

	"jetlag-advisor/internal/domain/entity"
)

var canonicalUTC = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

func TestNormalizeUA2116(t *testing.T) {
	n := NewFlightNormalizer(testLogger)
	designator := entity.FlightDesignator{CarrierCode: "UA", FlightNumber: "2116", ScheduledDepartureDate: "2025-03-31"}

	record, err := n.Normalize(designator, ua2116Payload())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if record.Departure.ScheduledTimeISO != "2025-03-31T21:55:00Z" {
		t.Errorf("departure = %s", record.Departure.ScheduledTimeISO)
	}
	if record.Arrival.ScheduledTimeISO != "2025-04-01T13:10:00Z" {
		t.Errorf("arrival = %s", record.Arrival.ScheduledTimeISO)
	}
	for _, ts := range []string{record.Departure.ScheduledTimeISO, record.Arrival.ScheduledTimeISO} {
		if !canonicalUTC.MatchString(ts) {
			t.Errorf("%s is not canonical UTC", ts)
		}
	}
	if len(record.Segments) != 1 || record.Segments[0].OffPointIataCode != "HNL" {
		t.Errorf("expected only the SFO-HNL segment, got %+v", record.Segments)
	}
	if len(record.Legs) != 1 || record.Legs[0].AircraftType != "789" {
		t.Errorf("unexpected legs %+v", record.Legs)
	}
	if record.Duration() != "PT15H15M" {
		t.Errorf("duration = %s", record.Duration())
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	n := NewFlightNormalizer(testLogger)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"minutes with offset", "2025-03-31T14:55-07:00", "2025-03-31T21:55:00Z"},
		{"seconds with offset", "2025-03-31T14:55:30+02:00", "2025-03-31T12:55:30Z"},
		{"already utc", "2025-03-31T21:55:00Z", "2025-03-31T21:55:00Z"},
		{"fractional seconds", "2025-03-31T21:55:00.500Z", "2025-03-31T21:55:00Z"},
		{"no offset assumed utc", "2025-03-31T21:55:00", "2025-03-31T21:55:00Z"},
		{"no offset minutes", "2025-03-31T21:55", "2025-03-31T21:55:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.NormalizeTimestamp(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := n.NormalizeTimestamp("31/03/2025 21:55"); err == nil {
		t.Fatalf("expected error for unrecognized layout")
	}
}

func TestNormalizeSkipsUnusableEntries(t *testing.T) {
	n := NewFlightNormalizer(testLogger)
	payload := ua2116Payload()
	onePoint := entity.RawDatedFlight{FlightPoints: payload.Data[0].FlightPoints[:1]}
	payload.Data = append([]entity.RawDatedFlight{onePoint}, payload.Data...)

	record, err := n.Normalize(entity.FlightDesignator{CarrierCode: "UA", FlightNumber: "2116"}, payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if record.Departure.AirportCode != "SFO" {
		t.Fatalf("expected second entry to be used, got %+v", record.Departure)
	}
}

func TestNormalizeIncompleteData(t *testing.T) {
	n := NewFlightNormalizer(testLogger)

	missingTimings := ua2116Payload()
	missingTimings.Data[0].FlightPoints[1].Arrival = &entity.RawTimings{}

	reversed := ua2116Payload()
	reversed.Data[0].FlightPoints[1].Arrival.Timings[0].Value = "2025-03-31T10:00Z"

	tests := []struct {
		name    string
		payload *entity.RawSchedulePayload
	}{
		{"nil payload", nil},
		{"empty data", &entity.RawSchedulePayload{}},
		{"single point", &entity.RawSchedulePayload{Data: []entity.RawDatedFlight{{FlightPoints: []entity.RawFlightPoint{{IataCode: "SFO"}}}}}},
		{"missing arrival timing", missingTimings},
		{"arrival before departure", reversed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(entity.FlightDesignator{CarrierCode: "UA", FlightNumber: "2116"}, tt.payload)
			if !errors.Is(err, entity.ErrIncompleteData) {
				t.Fatalf("expected incomplete data error, got %v", err)
			}
			if errors.Is(err, entity.ErrProvider) {
				t.Fatalf("incomplete data must not be reported as provider error")
			}
		})
	}
}
