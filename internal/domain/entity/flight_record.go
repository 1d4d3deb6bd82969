// internal/domain/entity/flight_record.go
package entity

import (
	"fmt"
	"time"
)

// CanonicalTimeLayout is the UTC layout every normalized timestamp is rendered in.
const CanonicalTimeLayout = "2006-01-02T15:04:05Z"

// FlightDesignator identifies a scheduled flight on a given date.
type FlightDesignator struct {
	CarrierCode            string `json:"carrierCode" bson:"carrierCode"`
	FlightNumber           string `json:"flightNumber" bson:"flightNumber"`
	ScheduledDepartureDate string `json:"scheduledDepartureDate" bson:"scheduledDepartureDate"`
}

// Key returns a compact identifier such as "UA2116@2025-03-31".
func (d FlightDesignator) Key() string {
	return fmt.Sprintf("%s%s@%s", d.CarrierCode, d.FlightNumber, d.ScheduledDepartureDate)
}

// FlightPoint is one end of the flight (departure or arrival).
type FlightPoint struct {
	AirportCode      string `json:"airportCode" bson:"airportCode"`
	ScheduledTimeISO string `json:"scheduledTimeISO" bson:"scheduledTimeISO"`
}

// Time parses the canonical UTC timestamp.
func (p FlightPoint) Time() (time.Time, error) {
	return time.Parse(CanonicalTimeLayout, p.ScheduledTimeISO)
}

// Segment is a commercial segment of the flight.
type Segment struct {
	BoardPointIataCode       string `json:"boardPointIataCode" bson:"boardPointIataCode"`
	OffPointIataCode         string `json:"offPointIataCode" bson:"offPointIataCode"`
	ScheduledSegmentDuration string `json:"scheduledSegmentDuration" bson:"scheduledSegmentDuration"`
	OperatingCarrierCode     string `json:"operatingCarrierCode,omitempty" bson:"operatingCarrierCode,omitempty"`
	OperatingFlightNumber    string `json:"operatingFlightNumber,omitempty" bson:"operatingFlightNumber,omitempty"`
}

// Leg is an operational leg of the flight.
type Leg struct {
	BoardPointIataCode   string `json:"boardPointIataCode" bson:"boardPointIataCode"`
	OffPointIataCode     string `json:"offPointIataCode" bson:"offPointIataCode"`
	AircraftType         string `json:"aircraftType,omitempty" bson:"aircraftType,omitempty"`
	ScheduledLegDuration string `json:"scheduledLegDuration" bson:"scheduledLegDuration"`
}

// FlightRecord is the canonical flight schedule built once per request. It is passed by value.
type FlightRecord struct {
	FlightDesignator FlightDesignator `json:"flightDesignator" bson:"flightDesignator"`
	Departure        FlightPoint      `json:"departure" bson:"departure"`
	Arrival          FlightPoint      `json:"arrival" bson:"arrival"`
	Segments         []Segment        `json:"segments" bson:"segments"`
	Legs             []Leg            `json:"legs" bson:"legs"`
}

// Duration returns the first leg's scheduled duration, falling back to the first segment's.
func (f FlightRecord) Duration() string {
	if len(f.Legs) > 0 && f.Legs[0].ScheduledLegDuration != "" {
		return f.Legs[0].ScheduledLegDuration
	}
	if len(f.Segments) > 0 && f.Segments[0].ScheduledSegmentDuration != "" {
		return f.Segments[0].ScheduledSegmentDuration
	}
	return "unknown"
}

// Validate enforces departure < arrival.
func (f FlightRecord) Validate() error {
	dep, err := f.Departure.Time()
	if err != nil {
		return fmt.Errorf("departure time: %w", err)
	}
	arr, err := f.Arrival.Time()
	if err != nil {
		return fmt.Errorf("arrival time: %w", err)
	}
	if !dep.Before(arr) {
		return fmt.Errorf("departure %s is not before arrival %s", f.Departure.ScheduledTimeISO, f.Arrival.ScheduledTimeISO)
	}
	return nil
}
