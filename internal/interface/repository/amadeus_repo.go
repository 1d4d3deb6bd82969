package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultAmadeusBaseURL = "https://test.api.amadeus.com"

// AmadeusFlightLookup calls the Amadeus On-Demand Flight Status API.
type AmadeusFlightLookup struct {
	logger  logger.Logger
	baseURL string
	client  *http.Client
}

type amadeusErrorBody struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// NewAmadeusFlightLookup creates a lookup client authenticated with OAuth2 client credentials.
func NewAmadeusFlightLookup(clientID, clientSecret, baseURL string, timeout time.Duration, logger logger.Logger) repository.FlightLookup {
	if baseURL == "" {
		baseURL = defaultAmadeusBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	creds := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/v1/security/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
	client := creds.Client(ctx)
	client.Timeout = timeout

	return &AmadeusFlightLookup{
		logger:  logger,
		baseURL: baseURL,
		client:  client,
	}
}

// LookupSchedule fetches the schedule for one flight designator. Every failure is a ProviderError;
// a schedule that does not exist additionally wraps entity.ErrNotFound.
func (r *AmadeusFlightLookup) LookupSchedule(ctx context.Context, carrierCode, flightNumber, departureDate string) (*entity.RawSchedulePayload, error) {
	const op = "lookup schedule"

	query := url.Values{}
	query.Set("carrierCode", carrierCode)
	query.Set("flightNumber", flightNumber)
	query.Set("scheduledDepartureDate", departureDate)
	endpoint := fmt.Sprintf("%s/v2/schedule/flights?%s", r.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, entity.NewProviderError(op, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	r.logger.Info("Fetching flight schedule",
		"carrierCode", carrierCode,
		"flightNumber", flightNumber,
		"departureDate", departureDate)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, entity.NewProviderError(op, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body amadeusErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			r.logger.Debug("Failed to decode provider error body", "status", resp.StatusCode, "error", err)
		}
		detail := ""
		if len(body.Errors) > 0 {
			detail = strings.TrimSpace(body.Errors[0].Title + " " + body.Errors[0].Detail)
		}
		return nil, entity.NewProviderError(op, statusError(resp.StatusCode, detail))
	}

	var payload entity.RawSchedulePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, entity.NewProviderError(op, fmt.Errorf("failed to decode response: %w", err))
	}

	if len(payload.Data) == 0 {
		return nil, entity.NewProviderError(op, fmt.Errorf("no flight data available for %s%s on %s: %w",
			carrierCode, flightNumber, departureDate, entity.ErrNotFound))
	}

	r.logger.Info("Flight schedule fetched", "entries", len(payload.Data))
	return &payload, nil
}

func statusError(status int, detail string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("authentication failed (status %d): %s", status, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limit exceeded (status %d): %s", status, detail)
	case http.StatusNotFound:
		return fmt.Errorf("schedule not found (status %d): %s: %w", status, detail, entity.ErrNotFound)
	default:
		return fmt.Errorf("provider returned status %d: %s", status, detail)
	}
}
