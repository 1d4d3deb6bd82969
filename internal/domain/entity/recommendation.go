package entity

import "fmt"

// RecommendationResult is the structured output of the health recommendation stage.
type RecommendationResult struct {
	SleepSchedule   SleepSchedule   `json:"sleep_schedule" jsonschema:"Sleep adjustment plan for the trip"`
	ExercisePlan    ExercisePlan    `json:"exercise_plan" jsonschema:"Movement and exercise before, during and after the flight"`
	MealPlan        MealPlan        `json:"meal_plan" jsonschema:"Meal timing and dietary advice"`
	HydrationPlan   HydrationPlan   `json:"hydration_plan" jsonschema:"Hydration target and reminders"`
	Personalization Personalization `json:"personalization" jsonschema:"Advice personalized from the traveler's sleep heart rate and travel direction"`
}

type SleepSchedule struct {
	AdjustmentPeriodAdvice   string `json:"adjustment_period_advice,omitempty" jsonschema:"How fast to shift the sleep schedule, in minutes per day"`
	RecommendedBedtimeLocal  string `json:"recommended_bedtime_local,omitempty" jsonschema:"e.g. '10:00 PM Tokyo Time'"`
	RecommendedWakeTimeLocal string `json:"recommended_wake_time_local,omitempty" jsonschema:"e.g. '7:00 AM Tokyo Time'"`
	NapStrategyAdvice        string `json:"nap_strategy_advice,omitempty" jsonschema:"Whether and how to nap"`
}

type ExercisePlan struct {
	PreFlightRoutine     []string `json:"pre_flight_routine,omitempty"`
	DuringFlightMovement []string `json:"during_flight_movement,omitempty"`
	PostFlightActivity   []string `json:"post_flight_activity,omitempty"`
}

type MealTiming struct {
	FirstDayBreakfast string `json:"first_day_breakfast,omitempty"`
	FirstDayLunch     string `json:"first_day_lunch,omitempty"`
	FirstDayDinner    string `json:"first_day_dinner,omitempty"`
}

type MealPlan struct {
	TimingAdjustment       MealTiming `json:"timing_adjustment"`
	DietaryRecommendations []string   `json:"dietary_recommendations,omitempty"`
}

type HydrationPlan struct {
	DailyTargetLiters     string   `json:"daily_target_liters,omitempty" jsonschema:"e.g. '2-3 liters'"`
	HydrationScheduleTips []string `json:"hydration_schedule_tips,omitempty"`
}

type Personalization struct {
	LightExposureAdvice string `json:"light_exposure_advice,omitempty"`
	RelaxationAdvice    string `json:"relaxation_advice,omitempty"`
	NapAdvice           string `json:"nap_advice,omitempty"`
}

// IsEmpty reports whether no section carries any content.
func (r *RecommendationResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.SleepSchedule == (SleepSchedule{}) &&
		len(r.ExercisePlan.PreFlightRoutine)+len(r.ExercisePlan.DuringFlightMovement)+len(r.ExercisePlan.PostFlightActivity) == 0 &&
		r.MealPlan.TimingAdjustment == (MealTiming{}) && len(r.MealPlan.DietaryRecommendations) == 0 &&
		r.HydrationPlan.DailyTargetLiters == "" && len(r.HydrationPlan.HydrationScheduleTips) == 0 &&
		r.Personalization == (Personalization{})
}

// Validate rejects results that carry no content at all. Every individual field is optional.
func (r *RecommendationResult) Validate() error {
	if r.IsEmpty() {
		return fmt.Errorf("recommendation result has no populated section")
	}
	return nil
}
