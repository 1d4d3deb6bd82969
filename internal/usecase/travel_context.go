package usecase

import (
	"context"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"
)

// TravelDirection is the estimated direction of travel.
type TravelDirection string

const (
	DirectionEastward TravelDirection = "eastward"
	DirectionWestward TravelDirection = "westward"
)

// EstimateDirection compares the UTC hour of departure and arrival: a later arrival hour is read
// as eastward, anything else as westward.
//
// Known low accuracy: it ignores airport timezones, so dateline crossings and red-eye flights
// are frequently misclassified. TravelContext carries local times when reference data is
// available, but they do not feed this estimate.
func EstimateDirection(record entity.FlightRecord) TravelDirection {
	dep, err := record.Departure.Time()
	if err != nil {
		return DirectionWestward
	}
	arr, err := record.Arrival.Time()
	if err != nil {
		return DirectionWestward
	}
	if arr.Hour() > dep.Hour() {
		return DirectionEastward
	}
	return DirectionWestward
}

// TravelContext is the flight plus everything derived from it that the prompts use.
type TravelContext struct {
	Flight         entity.FlightRecord
	Direction      TravelDirection
	AirlineName    string
	DepartureLocal string
	ArrivalLocal   string
}

// ReferenceData enriches a flight with airline names and local airport times. Both
// repositories are optional.
type ReferenceData struct {
	airlineRepo  repository.AirlineRepository
	timezoneRepo repository.TimezoneRepository
	logger       logger.Logger
}

// NewReferenceData creates a new reference data enricher
func NewReferenceData(airlineRepo repository.AirlineRepository, timezoneRepo repository.TimezoneRepository, logger logger.Logger) *ReferenceData {
	return &ReferenceData{
		airlineRepo:  airlineRepo,
		timezoneRepo: timezoneRepo,
		logger:       logger,
	}
}

// BuildContext never fails: lookup errors are logged and the field is left empty.
func (r *ReferenceData) BuildContext(ctx context.Context, record entity.FlightRecord) TravelContext {
	tc := TravelContext{
		Flight:    record,
		Direction: EstimateDirection(record),
	}
	if r == nil {
		return tc
	}

	if r.airlineRepo != nil {
		airline, err := r.airlineRepo.GetByCode(ctx, record.FlightDesignator.CarrierCode)
		if err != nil {
			r.logger.Warn("Failed to get airline", "code", record.FlightDesignator.CarrierCode, "error", err)
		} else {
			tc.AirlineName = airline.Name
		}
	}

	if r.timezoneRepo != nil {
		tc.DepartureLocal = r.localTime(ctx, record.Departure)
		tc.ArrivalLocal = r.localTime(ctx, record.Arrival)
	}
	return tc
}

func (r *ReferenceData) localTime(ctx context.Context, point entity.FlightPoint) string {
	tz, err := r.timezoneRepo.GetByAirportCode(ctx, point.AirportCode)
	if err != nil {
		r.logger.Warn("Failed to get airport timezone", "code", point.AirportCode, "error", err)
		return ""
	}
	loc, err := time.LoadLocation(tz.TzName)
	if err != nil {
		r.logger.Warn("Failed to load location", "tz", tz.TzName, "code", point.AirportCode, "error", err)
		return ""
	}
	t, err := point.Time()
	if err != nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04 MST")
}
