package repository

import (
	"context"
	"fmt"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendarPublisher inserts schedule events into a Google Calendar.
type GoogleCalendarPublisher struct {
	service    *calendar.Service
	calendarID string
	logger     logger.Logger
}

// NewGoogleCalendarPublisher creates a publisher for calendarID ("primary" when empty).
func NewGoogleCalendarPublisher(ctx context.Context, tokenSource oauth2.TokenSource, calendarID string, logger logger.Logger) (repository.CalendarPublisher, error) {
	service, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	return &GoogleCalendarPublisher{
		service:    service,
		calendarID: calendarID,
		logger:     logger,
	}, nil
}

// Publish inserts every event. It stops at the first failure and reports how many were inserted.
func (p *GoogleCalendarPublisher) Publish(ctx context.Context, events []entity.ScheduleEvent) error {
	for i, ev := range events {
		gEvent := &calendar.Event{
			Summary:     ev.Title,
			Description: ev.Description,
			Start:       &calendar.EventDateTime{DateTime: ev.Start, TimeZone: "UTC"},
			End:         &calendar.EventDateTime{DateTime: ev.End, TimeZone: "UTC"},
			ExtendedProperties: &calendar.EventExtendedProperties{
				Private: map[string]string{"jetlagEventId": ev.ID},
			},
		}

		if _, err := p.service.Events.Insert(p.calendarID, gEvent).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to insert event %s after %d inserted: %w", ev.ID, i, err)
		}
	}

	p.logger.Info("Published events to Google Calendar", "calendarId", p.calendarID, "count", len(events))
	return nil
}
