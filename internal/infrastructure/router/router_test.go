package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/interface/httpapi"
	"jetlag-advisor/internal/usecase"
	"jetlag-advisor/pkg/logger"
	"jetlag-advisor/pkg/metrics"
)

type emptyCalendar struct{}

func (emptyCalendar) Events(context.Context) []entity.ScheduleEvent { return []entity.ScheduleEvent{} }

type staticHealth struct{}

func (staticHealth) Ingest(context.Context, *entity.HealthSnapshot) error { return nil }
func (staticHealth) Signal(context.Context) entity.HealthSignal       { return entity.HealthSignal{WindowDays: 3} }

type staticChecker struct{}

func (staticChecker) Check(context.Context) usecase.HealthReport {
	return usecase.HealthReport{Status: usecase.StatusHealthy}
}

func TestRouterRoutes(t *testing.T) {
	h := httpapi.NewHandler(nil, emptyCalendar{}, staticHealth{}, staticChecker{}, logger.NewNop())
	srv := httptest.NewServer(NewRouter(h, metrics.NewMetrics("test").Handler(), logger.NewNop()))
	defer srv.Close()

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/calendar/events", http.StatusOK},
		{http.MethodGet, "/api/health-signal", http.StatusOK},
		{http.MethodGet, "/api/health-check", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodOptions, "/api/flight-recommendations", http.StatusNoContent},
		{http.MethodGet, "/api/flight-recommendations", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.method, tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.want)
		}
		if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s %s: missing CORS header", tt.method, tt.path)
		}
	}
}
