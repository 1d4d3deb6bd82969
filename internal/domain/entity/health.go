package entity

import (
	"fmt"
	"time"
)

// SleepSession is one recorded sleep episode.
type SleepSession struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// HeartRateSample is a single timestamped beats-per-minute reading.
type HeartRateSample struct {
	Time           time.Time `json:"time"`
	BeatsPerMinute float64   `json:"beatsPerMinute"`
}

// HeartRateRecord groups samples captured by the device over one recording interval.
type HeartRateRecord struct {
	StartTime time.Time         `json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
	Samples   []HeartRateSample `json:"samples"`
}

// HealthSnapshot is the sensor document written by the ingestion endpoint.
type HealthSnapshot struct {
	SleepRecords     []SleepSession    `json:"sleepRecords"`
	HeartRateRecords []HeartRateRecord `json:"heartRateRecords"`
	ReceivedAt       time.Time         `json:"receivedAt,omitempty"`
}

// Validate checks startTime <= endTime for every sleep session.
func (s HealthSnapshot) Validate() error {
	for i, session := range s.SleepRecords {
		if session.EndTime.Before(session.StartTime) {
			return fmt.Errorf("sleep record %d (%s): end %s precedes start %s",
				i, session.ID, session.EndTime.Format(time.RFC3339), session.StartTime.Format(time.RFC3339))
		}
	}
	return nil
}

// HealthSignal is the personalization signal derived per request. It is never persisted on its own.
type HealthSignal struct {
	AverageSleepHeartRate *float64 `json:"averageSleepHeartRate"`
	IsHigh                bool     `json:"isHigh"`
	WindowDays            int      `json:"windowDays"`
	SessionsUsed          int      `json:"sessionsUsed"`
	SamplesUsed           int      `json:"samplesUsed"`
	Reason                string   `json:"reason,omitempty"`
}

// HasAverage reports whether an average could be computed.
func (h HealthSignal) HasAverage() bool {
	return h.AverageSleepHeartRate != nil
}

// Classification is a short label used for logging and metrics.
func (h HealthSignal) Classification() string {
	switch {
	case !h.HasAverage():
		return "unknown"
	case h.IsHigh:
		return "high"
	default:
		return "normal"
	}
}
