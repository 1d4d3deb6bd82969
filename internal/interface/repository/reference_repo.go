package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"

	"gorm.io/gorm"
)

// airlineRow reads the columns of m_airlines the enrichment needs.
type airlineRow struct {
	Code string `gorm:"column:code"`
	Name string `gorm:"column:name"`
}

func (airlineRow) TableName() string {
	return "m_airlines"
}

// timezoneRow reads the columns of m_timezone_list the enrichment needs.
type timezoneRow struct {
	AirportCode string `gorm:"column:airportcode"`
	AirportName string `gorm:"column:airport_name"`
	TzName      string `gorm:"column:tzname"`
}

func (timezoneRow) TableName() string {
	return "m_timezone_list"
}

// GormReferenceRepository serves airline names and airport timezones from the reference tables.
type GormReferenceRepository struct {
	db *gorm.DB
}

var (
	_ repository.AirlineRepository  = (*GormReferenceRepository)(nil)
	_ repository.TimezoneRepository = (*GormReferenceRepository)(nil)
)

// NewGormReferenceRepository creates a reference data repository on top of db.
func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// GetByCode finds an airline by carrier code, soft-deleted rows included.
func (r *GormReferenceRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var row airlineRow
	err := r.db.WithContext(ctx).Unscoped().
		Select("code", "name").
		Where("code = ?", strings.ToUpper(code)).
		First(&row).Error
	if err != nil {
		return nil, lookupError("airline", code, err)
	}
	return &entity.Airline{Code: row.Code, Name: row.Name}, nil
}

// GetByAirportCode finds the timezone of an IATA airport code.
func (r *GormReferenceRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Timezone, error) {
	var row timezoneRow
	err := r.db.WithContext(ctx).Unscoped().
		Select("airportcode", "airport_name", "tzname").
		Where("airportcode = ?", strings.ToUpper(code)).
		First(&row).Error
	if err != nil {
		return nil, lookupError("airport timezone", code, err)
	}
	if row.TzName == "" {
		return nil, fmt.Errorf("airport %s has no timezone name: %w", row.AirportCode, entity.ErrNotFound)
	}
	return &entity.Timezone{AirportCode: row.AirportCode, AirportName: row.AirportName, TzName: row.TzName}, nil
}

func lookupError(kind, code string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, code, entity.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s %s: %w", kind, code, err)
}
