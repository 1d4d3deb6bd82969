package repository

import (
	"context"

	"jetlag-advisor/internal/domain/entity"
)

// CalendarPublisher pushes generated events to an external calendar.
type CalendarPublisher interface {
	Publish(ctx context.Context, events []entity.ScheduleEvent) error
}
