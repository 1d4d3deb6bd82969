package repository

import (
	"errors"
	"fmt"
	"testing"

	"jetlag-advisor/internal/domain/entity"

	"gorm.io/gorm"
)

func TestLookupErrorMapsMissingRows(t *testing.T) {
	err := lookupError("airline", "ZZ", fmt.Errorf("query: %w", gorm.ErrRecordNotFound))
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	err = lookupError("airport timezone", "SFO", errors.New("connection refused"))
	if errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("connection failures must not read as not found: %v", err)
	}
}
