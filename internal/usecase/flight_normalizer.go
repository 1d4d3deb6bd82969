package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/pkg/logger"
)

// Provider timestamps carry a UTC offset. Minutes-only and fractional-second variants both occur.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// Timestamps without an offset are read as UTC.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// FlightNormalizer turns the provider's schedule document into a FlightRecord.
type FlightNormalizer struct {
	logger logger.Logger
}

// NewFlightNormalizer creates a new flight normalizer
func NewFlightNormalizer(logger logger.Logger) *FlightNormalizer {
	return &FlightNormalizer{logger: logger}
}

// Normalize selects the first dated flight with a usable departure and arrival and converts it.
// It fails with an incomplete data error when no entry qualifies.
func (n *FlightNormalizer) Normalize(designator entity.FlightDesignator, payload *entity.RawSchedulePayload) (entity.FlightRecord, error) {
	if payload == nil || len(payload.Data) == 0 {
		return entity.FlightRecord{}, entity.NewIncompleteDataError("normalize flight", errors.New("schedule contains no dated flights"))
	}

	var lastErr error
	for i, flight := range payload.Data {
		record, err := n.normalizeFlight(designator, flight)
		if err != nil {
			n.logger.Debug("Skipping dated flight", "index", i, "flight", designator.Key(), "reason", err)
			lastErr = err
			continue
		}
		return record, nil
	}

	return entity.FlightRecord{}, entity.NewIncompleteDataError("normalize flight",
		fmt.Errorf("no usable schedule entry for %s: %w", designator.Key(), lastErr))
}

func (n *FlightNormalizer) normalizeFlight(designator entity.FlightDesignator, flight entity.RawDatedFlight) (entity.FlightRecord, error) {
	if len(flight.FlightPoints) < 2 {
		return entity.FlightRecord{}, fmt.Errorf("need at least 2 flight points, got %d", len(flight.FlightPoints))
	}

	origin := flight.FlightPoints[0]
	destination := flight.FlightPoints[len(flight.FlightPoints)-1]
	if origin.IataCode == "" || destination.IataCode == "" {
		return entity.FlightRecord{}, errors.New("flight point without airport code")
	}

	departureRaw := origin.Departure.FirstTiming()
	arrivalRaw := destination.Arrival.FirstTiming()
	if departureRaw == "" || arrivalRaw == "" {
		return entity.FlightRecord{}, errors.New("departure or arrival timing missing")
	}

	departure, err := n.NormalizeTimestamp(departureRaw)
	if err != nil {
		return entity.FlightRecord{}, fmt.Errorf("departure: %w", err)
	}
	arrival, err := n.NormalizeTimestamp(arrivalRaw)
	if err != nil {
		return entity.FlightRecord{}, fmt.Errorf("arrival: %w", err)
	}

	record := entity.FlightRecord{
		FlightDesignator: designator,
		Departure:        entity.FlightPoint{AirportCode: origin.IataCode, ScheduledTimeISO: departure},
		Arrival:          entity.FlightPoint{AirportCode: destination.IataCode, ScheduledTimeISO: arrival},
		Segments:         filterSegments(flight.Segments, origin.IataCode, destination.IataCode),
		Legs:             filterLegs(flight.Legs, origin.IataCode, destination.IataCode),
	}
	if err := record.Validate(); err != nil {
		return entity.FlightRecord{}, err
	}
	return record, nil
}

// NormalizeTimestamp converts a provider timestamp to the canonical UTC layout. A value without
// an offset is assumed to already be UTC; that fallback is logged at warn level.
func (n *FlightNormalizer) NormalizeTimestamp(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(entity.CanonicalTimeLayout), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			n.logger.Warn("Timestamp has no UTC offset, assuming UTC", "value", raw)
			return t.UTC().Format(entity.CanonicalTimeLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized timestamp %q", raw)
}

func filterSegments(segments []entity.RawSegment, origin, destination string) []entity.Segment {
	result := make([]entity.Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.BoardPointIataCode != origin || seg.OffPointIataCode != destination {
			continue
		}
		out := entity.Segment{
			BoardPointIataCode:       seg.BoardPointIataCode,
			OffPointIataCode:         seg.OffPointIataCode,
			ScheduledSegmentDuration: seg.ScheduledSegmentDuration,
		}
		if seg.Partnership != nil {
			out.OperatingCarrierCode = seg.Partnership.OperatingFlight.CarrierCode
			out.OperatingFlightNumber = seg.Partnership.OperatingFlight.FlightNumber.String()
		}
		result = append(result, out)
	}
	return result
}

func filterLegs(legs []entity.RawLeg, origin, destination string) []entity.Leg {
	result := make([]entity.Leg, 0, len(legs))
	for _, leg := range legs {
		if leg.BoardPointIataCode != origin || leg.OffPointIataCode != destination {
			continue
		}
		out := entity.Leg{
			BoardPointIataCode:   leg.BoardPointIataCode,
			OffPointIataCode:     leg.OffPointIataCode,
			ScheduledLegDuration: leg.ScheduledLegDuration,
		}
		if leg.AircraftEquipment != nil {
			out.AircraftType = leg.AircraftEquipment.AircraftType
		}
		result = append(result, out)
	}
	return result
}
