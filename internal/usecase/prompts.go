package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"jetlag-advisor/internal/domain/entity"
)

// Circadian shift pace wording. The slow pace is what high sleep heart rate travelers get.
const (
	slowShiftPace    = "30-60 minutes per day"
	defaultShiftPace = "about 1 hour per day"
)

func flightJSON(record entity.FlightRecord) string {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", record)
	}
	return string(data)
}

func flightSummary(tc TravelContext) string {
	var b strings.Builder
	record := tc.Flight
	fmt.Fprintf(&b, "Flight: %s%s on %s", record.FlightDesignator.CarrierCode, record.FlightDesignator.FlightNumber, record.FlightDesignator.ScheduledDepartureDate)
	if tc.AirlineName != "" {
		fmt.Fprintf(&b, " (%s)", tc.AirlineName)
	}
	fmt.Fprintf(&b, "\nDeparture: %s at %s UTC", record.Departure.AirportCode, record.Departure.ScheduledTimeISO)
	if tc.DepartureLocal != "" {
		fmt.Fprintf(&b, " (local %s)", tc.DepartureLocal)
	}
	fmt.Fprintf(&b, "\nArrival: %s at %s UTC", record.Arrival.AirportCode, record.Arrival.ScheduledTimeISO)
	if tc.ArrivalLocal != "" {
		fmt.Fprintf(&b, " (local %s)", tc.ArrivalLocal)
	}
	fmt.Fprintf(&b, "\nDuration: %s\nEstimated direction: %s", record.Duration(), tc.Direction)
	return b.String()
}

func contextAnalysisPrompt(tc TravelContext) string {
	return fmt.Sprintf(`Analyze the flight below and summarize the travel context for a health planner.
Cover:
1. Direction of travel (%s) and the likely time zone shift at %s.
2. Flight duration and what it means for in-flight rest.
3. Key times: departure, arrival, and the first local evening after arrival.
4. Pre-flight preparation and post-arrival adjustment priorities.

%s

Full flight context:
%s

Answer in concise prose or a short bullet list. This summary is only used as input for the next planner.`,
		tc.Direction, tc.Flight.Arrival.AirportCode, flightSummary(tc), flightJSON(tc.Flight))
}

func personalizationRules(signal entity.HealthSignal, direction TravelDirection) string {
	var b strings.Builder
	if signal.IsHigh {
		fmt.Fprintf(&b, "- The traveler's average sleep heart rate is elevated (%.1f bpm). Recommend a slow circadian shift of %s instead of the usual %s. State that pace explicitly in adjustment_period_advice.\n",
			*signal.AverageSleepHeartRate, slowShiftPace, defaultShiftPace)
		b.WriteString("- Include relaxation techniques (breathing exercises, meditation, a wind-down routine) in relaxation_advice.\n")
		b.WriteString("- Recommend avoiding naps after arrival in nap_advice.\n")
	} else {
		if signal.HasAverage() {
			fmt.Fprintf(&b, "- The traveler's average sleep heart rate is %.1f bpm, which is not elevated.\n", *signal.AverageSleepHeartRate)
		} else {
			fmt.Fprintf(&b, "- No usable sleep heart rate data (%s); give non-personalized advice.\n", signal.Reason)
		}
		fmt.Fprintf(&b, "- Use the default circadian shift pace of %s.\n", defaultShiftPace)
		b.WriteString("- Give generic nap advice in nap_advice: short naps of 20-30 minutes before mid-afternoon are fine.\n")
	}
	if direction == DirectionEastward {
		b.WriteString("- Travel is eastward: in light_exposure_advice tell the traveler to seek bright morning light at the destination.\n")
	} else {
		b.WriteString("- Travel is westward: in light_exposure_advice tell the traveler to avoid morning light and seek afternoon and evening light.\n")
	}
	return b.String()
}

func recommendationPrompt(tc TravelContext, signal entity.HealthSignal, analysis string) string {
	return fmt.Sprintf(`Based on the flight details and the travel analysis, produce personalized health recommendations covering sleep, exercise, meals, hydration and personalization for the trip to %s.

%s

Travel analysis:
%s

Personalization rules:
%s
Full flight context:
%s

Fill in every section: sleep_schedule, exercise_plan, meal_plan, hydration_plan and personalization.`,
		tc.Flight.Arrival.AirportCode, flightSummary(tc), strings.TrimSpace(analysis), personalizationRules(signal, tc.Direction), flightJSON(tc.Flight))
}

func schedulePrompt(record entity.FlightRecord, rec *entity.RecommendationResult) string {
	recJSON, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		recJSON = []byte("{}")
	}
	return fmt.Sprintf(`Create a day-by-day calendar for this trip from the recommendations below.
Include the flight departure and arrival as events, plus bedtime and wake time, meals, exercise blocks and hydration reminders from the day before departure until two days after arrival.

Flight:
%s

Recommendations:
%s

Respond with only a JSON array, ordered by start time. Each element must be:
{"id": "unique string", "title": "string", "start": "YYYY-MM-DDTHH:MM:SSZ", "end": "YYYY-MM-DDTHH:MM:SSZ", "description": "string"}
All times are UTC.`, flightJSON(record), string(recJSON))
}
