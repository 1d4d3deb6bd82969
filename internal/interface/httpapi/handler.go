package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/usecase"
	"jetlag-advisor/pkg/logger"
)

// Pipeline runs the synchronous recommendation path.
type Pipeline interface {
	Run(ctx context.Context, designator entity.FlightDesignator) (*usecase.PipelineResult, error)
}

// CalendarSource returns the stored calendar. It never fails.
type CalendarSource interface {
	Events(ctx context.Context) []entity.ScheduleEvent
}

// HealthData accepts sensor uploads and reports the current signal.
type HealthData interface {
	Ingest(ctx context.Context, snapshot *entity.HealthSnapshot) error
	Signal(ctx context.Context) entity.HealthSignal
}

// HealthReporter reports service health.
type HealthReporter interface {
	Check(ctx context.Context) usecase.HealthReport
}

// Handler serves the REST API.
type Handler struct {
	pipeline Pipeline
	calendar CalendarSource
	health   HealthData
	checker  HealthReporter
	logger   logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(pipeline Pipeline, calendar CalendarSource, health HealthData, checker HealthReporter, logger logger.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		calendar: calendar,
		health:   health,
		checker:  checker,
		logger:   logger,
	}
}

// FlightRecommendationRequest is the body of POST /api/flight-recommendations.
type FlightRecommendationRequest struct {
	CarrierCode            string `json:"carrierCode"`
	FlightNumber           string `json:"flightNumber"`
	ScheduledDepartureDate string `json:"scheduledDepartureDate"`
}

var requiredFields = []string{"carrierCode", "flightNumber", "scheduledDepartureDate"}

func (r FlightRecommendationRequest) validate() error {
	if strings.TrimSpace(r.CarrierCode) == "" || strings.TrimSpace(r.FlightNumber) == "" || strings.TrimSpace(r.ScheduledDepartureDate) == "" {
		return errors.New("missing or invalid required fields")
	}
	if _, err := time.Parse("2006-01-02", r.ScheduledDepartureDate); err != nil {
		return errors.New("scheduledDepartureDate must be YYYY-MM-DD")
	}
	return nil
}

// FlightRecommendationResponse is the success body of POST /api/flight-recommendations.
type FlightRecommendationResponse struct {
	Success         bool                         `json:"success"`
	RunID           string                       `json:"run_id"`
	FlightDetails   entity.FlightRecord          `json:"flight_details"`
	Recommendations *entity.RecommendationResult `json:"recommendations"`
	HealthSignal    entity.HealthSignal          `json:"health_signal"`
	TravelDirection usecase.TravelDirection      `json:"travel_direction"`
	ScheduleStatus  string                       `json:"schedule_status"`
	ScheduleJobID   string                       `json:"schedule_job_id,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error          string   `json:"error"`
	RequiredFields []string `json:"required_fields,omitempty"`
}

// FlightRecommendations handles POST /api/flight-recommendations.
func (h *Handler) FlightRecommendations(w http.ResponseWriter, r *http.Request) {
	var req FlightRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error(), RequiredFields: requiredFields})
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), RequiredFields: requiredFields})
		return
	}

	designator := entity.FlightDesignator{
		CarrierCode:            strings.ToUpper(strings.TrimSpace(req.CarrierCode)),
		FlightNumber:           strings.TrimSpace(req.FlightNumber),
		ScheduledDepartureDate: req.ScheduledDepartureDate,
	}
	h.logger.Info("Received flight recommendation request", "flight", designator.Key())

	result, err := h.pipeline.Run(r.Context(), designator)
	if err != nil {
		status := StatusForError(err)
		h.logger.Error("Flight recommendation failed", "flight", designator.Key(), "status", status, "error", err)
		writeJSON(w, status, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, FlightRecommendationResponse{
		Success:         true,
		RunID:           result.RunID,
		FlightDetails:   result.Flight,
		Recommendations: result.Recommendations,
		HealthSignal:    result.HealthSignal,
		TravelDirection: result.Direction,
		ScheduleStatus:  result.ScheduleStatus,
		ScheduleJobID:   result.ScheduleJobID,
	})
}

// CalendarEvents handles GET /api/calendar/events. It always answers 200.
func (h *Handler) CalendarEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.calendar.Events(r.Context()))
}

// IngestHealthData handles POST /api/health-data.
func (h *Handler) IngestHealthData(w http.ResponseWriter, r *http.Request) {
	var snapshot entity.HealthSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if err := h.health.Ingest(r.Context(), &snapshot); err != nil {
		if errors.Is(err, entity.ErrStorageIO) {
			h.logger.Error("Failed to store health data", "error", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"sleepRecords":     len(snapshot.SleepRecords),
		"heartRateRecords": len(snapshot.HeartRateRecords),
	})
}

// HealthSignal handles GET /api/health-signal.
func (h *Handler) HealthSignal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.health.Signal(r.Context()))
}

// HealthCheck handles GET /api/health-check.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.checker.Check(r.Context()))
}

// StatusForError maps pipeline error kinds to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, entity.ErrProvider) && errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, entity.ErrIncompleteData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrGeneration), errors.Is(err, entity.ErrSchemaValidation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
