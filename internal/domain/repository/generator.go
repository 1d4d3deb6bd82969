package repository

import (
	"context"

	"jetlag-advisor/internal/domain/entity"
)

// Generator is the text-generation capability.
type Generator interface {
	// Complete returns free text. The text may be wrapped in formatting artifacts.
	Complete(ctx context.Context, req entity.GenerationRequest) (string, error)

	// CompleteRecommendation returns output constrained to the RecommendationResult schema.
	CompleteRecommendation(ctx context.Context, req entity.GenerationRequest) (*entity.RecommendationResult, error)
}
