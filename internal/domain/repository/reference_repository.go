package repository

import (
	"context"

	"jetlag-advisor/internal/domain/entity"
)

// AirlineRepository resolves carrier codes to airline names.
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
}

// TimezoneRepository resolves airport codes to their IANA timezone.
type TimezoneRepository interface {
	GetByAirportCode(ctx context.Context, code string) (*entity.Timezone, error)
}
