package entity

import "time"

// ScheduleEvent is one entry of the day-by-day calendar derived from a recommendation.
type ScheduleEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

// StartTime parses Start in the canonical UTC layout.
func (e ScheduleEvent) StartTime() (time.Time, error) {
	return time.Parse(CanonicalTimeLayout, e.Start)
}

// EndTime parses End in the canonical UTC layout.
func (e ScheduleEvent) EndTime() (time.Time, error) {
	return time.Parse(CanonicalTimeLayout, e.End)
}
