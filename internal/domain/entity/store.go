package entity

// Named stores used as hand-off channels between pipeline stages.
const (
	RecommendationStore = "recommendations"
	CalendarStore       = "calendar_events"
	HealthDataStore     = "health_data"
)
