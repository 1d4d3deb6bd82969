package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/pkg/logger"
)

type recordingLogger struct {
	*logger.ZapLogger
	mu     sync.Mutex
	debugs []string
}

func (l *recordingLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, msg)
}

func newAmadeusServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("token request: %v", err)
		}
		if r.Form.Get("grant_type") != "client_credentials" || r.Form.Get("client_id") != "id" {
			t.Errorf("unexpected token form %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":1799}`))
	})
	mux.HandleFunc("/v2/schedule/flights", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", got)
		}
		q := r.URL.Query()
		if q.Get("carrierCode") != "UA" || q.Get("flightNumber") != "2116" || q.Get("scheduledDepartureDate") != "2025-03-31" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAmadeusLookupSchedule(t *testing.T) {
	srv := newAmadeusServer(t, http.StatusOK, `{"data":[{"type":"DatedFlight","scheduledDepartureDate":"2025-03-31",
		"flightDesignator":{"carrierCode":"UA","flightNumber":2116},
		"flightPoints":[{"iataCode":"DEN","departure":{"timings":[{"qualifier":"STD","value":"2025-03-31T14:55-07:00"}]}},
		{"iataCode":"HNL","arrival":{"timings":[{"qualifier":"STA","value":"2025-03-31T03:10-10:00"}]}}]}]}`)

	lookup := NewAmadeusFlightLookup("id", "secret", srv.URL, 5*time.Second, logger.NewNop())
	payload, err := lookup.LookupSchedule(context.Background(), "UA", "2116", "2025-03-31")
	if err != nil {
		t.Fatalf("LookupSchedule: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].FlightDesignator.FlightNumber.String() != "2116" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if len(payload.Data[0].FlightPoints) != 2 {
		t.Fatalf("expected 2 flight points, got %d", len(payload.Data[0].FlightPoints))
	}
}

func TestAmadeusLookupScheduleLogsUnreadableErrorBody(t *testing.T) {
	srv := newAmadeusServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	log := &recordingLogger{ZapLogger: logger.NewNop()}
	lookup := NewAmadeusFlightLookup("id", "secret", srv.URL, 5*time.Second, log)

	if _, err := lookup.LookupSchedule(context.Background(), "UA", "2116", "2025-03-31"); !errors.Is(err, entity.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.debugs) != 1 || log.debugs[0] != "Failed to decode provider error body" {
		t.Fatalf("debug logs = %v", log.debugs)
	}
}

func TestAmadeusLookupScheduleErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
	}{
		{"empty data", http.StatusOK, `{"data":[]}`, true},
		{"not found", http.StatusNotFound, `{"errors":[{"status":404,"title":"NOT FOUND"}]}`, true},
		{"unauthorized", http.StatusUnauthorized, `{"errors":[{"status":401,"title":"Invalid access token"}]}`, false},
		{"rate limited", http.StatusTooManyRequests, `{"errors":[{"status":429,"title":"Too many requests"}]}`, false},
		{"server error", http.StatusInternalServerError, `oops`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newAmadeusServer(t, tt.status, tt.body)
			lookup := NewAmadeusFlightLookup("id", "secret", srv.URL, 5*time.Second, logger.NewNop())

			_, err := lookup.LookupSchedule(context.Background(), "UA", "2116", "2025-03-31")
			if !errors.Is(err, entity.ErrProvider) {
				t.Fatalf("expected ErrProvider, got %v", err)
			}
			if got := errors.Is(err, entity.ErrNotFound); got != tt.notFound {
				t.Fatalf("errors.Is(ErrNotFound) = %v, want %v (%v)", got, tt.notFound, err)
			}
		})
	}
}
