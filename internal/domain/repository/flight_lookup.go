package repository

import (
	"context"

	"jetlag-advisor/internal/domain/entity"
)

// FlightLookup fetches the raw schedule document for a flight designator.
type FlightLookup interface {
	LookupSchedule(ctx context.Context, carrierCode, flightNumber, departureDate string) (*entity.RawSchedulePayload, error)
}
