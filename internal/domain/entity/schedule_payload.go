package entity

import "encoding/json"

// RawSchedulePayload is the flight schedule document returned by the provider.
type RawSchedulePayload struct {
	Data []RawDatedFlight `json:"data"`
}

// RawDatedFlight is one "flight" entry of the provider response.
type RawDatedFlight struct {
	Type                   string              `json:"type"`
	ScheduledDepartureDate string              `json:"scheduledDepartureDate"`
	FlightDesignator       RawFlightDesignator `json:"flightDesignator"`
	FlightPoints           []RawFlightPoint    `json:"flightPoints"`
	Segments               []RawSegment        `json:"segments"`
	Legs                   []RawLeg            `json:"legs"`
}

type RawFlightDesignator struct {
	CarrierCode  string      `json:"carrierCode"`
	FlightNumber json.Number `json:"flightNumber"`
}

type RawFlightPoint struct {
	IataCode  string      `json:"iataCode"`
	Departure *RawTimings `json:"departure,omitempty"`
	Arrival   *RawTimings `json:"arrival,omitempty"`
}

type RawTimings struct {
	Timings []RawTiming `json:"timings"`
}

type RawTiming struct {
	Qualifier string `json:"qualifier"`
	Value     string `json:"value"`
}

type RawSegment struct {
	BoardPointIataCode       string          `json:"boardPointIataCode"`
	OffPointIataCode         string          `json:"offPointIataCode"`
	ScheduledSegmentDuration string          `json:"scheduledSegmentDuration"`
	Partnership              *RawPartnership `json:"partnership,omitempty"`
}

type RawPartnership struct {
	OperatingFlight RawOperatingFlight `json:"operatingFlight"`
}

type RawOperatingFlight struct {
	CarrierCode  string      `json:"carrierCode"`
	FlightNumber json.Number `json:"flightNumber"`
}

type RawLeg struct {
	BoardPointIataCode   string                `json:"boardPointIataCode"`
	OffPointIataCode     string                `json:"offPointIataCode"`
	AircraftEquipment    *RawAircraftEquipment `json:"aircraftEquipment,omitempty"`
	ScheduledLegDuration string                `json:"scheduledLegDuration"`
}

type RawAircraftEquipment struct {
	AircraftType string `json:"aircraftType"`
}

// FirstTiming returns the first timing value, or "" when the array is missing or empty.
func (t *RawTimings) FirstTiming() string {
	if t == nil || len(t.Timings) == 0 {
		return ""
	}
	return t.Timings[0].Value
}
