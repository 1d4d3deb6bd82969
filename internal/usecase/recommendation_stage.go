package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"
)

// RecommendationOutcome is the result of the recommendation stage. Stored is false when the
// store write failed; the schedule stage must not run in that case.
type RecommendationOutcome struct {
	Result   *entity.RecommendationResult
	Stored   bool
	StoreErr error
}

// RecommendationStage runs the travel context analysis then the health recommendation generation
// and persists the result to the recommendation store.
type RecommendationStage struct {
	generator repository.Generator
	store     repository.BlobStore
	analyst   entity.AgentDefinition
	advisor   entity.AgentDefinition
	observers *Observers
	logger    logger.Logger
}

// NewRecommendationStage creates a new recommendation stage
func NewRecommendationStage(
	generator repository.Generator,
	store repository.BlobStore,
	analyst entity.AgentDefinition,
	advisor entity.AgentDefinition,
	observers *Observers,
	logger logger.Logger,
) *RecommendationStage {
	return &RecommendationStage{
		generator: generator,
		store:     store,
		analyst:   analyst,
		advisor:   advisor,
		observers: observers,
		logger:    logger,
	}
}

// Run blocks until both generations finish. Generation failures are returned; a store failure
// is not, it is reported through the outcome.
func (s *RecommendationStage) Run(ctx context.Context, runID string, tc TravelContext, signal entity.HealthSignal) (*RecommendationOutcome, error) {
	flightKey := tc.Flight.FlightDesignator.Key()

	done := s.observers.stageStarted(ctx, runID, entity.StageContextAnalysis, flightKey)
	analysis, err := s.generator.Complete(ctx, entity.GenerationRequest{
		Agent:  s.analyst,
		Prompt: contextAnalysisPrompt(tc),
	})
	done(string(tc.Direction), err)
	if err != nil {
		return nil, fmt.Errorf("travel context analysis: %w", err)
	}

	done = s.observers.stageStarted(ctx, runID, entity.StageRecommendation, flightKey)
	result, err := s.generator.CompleteRecommendation(ctx, entity.GenerationRequest{
		Agent:  s.advisor,
		Prompt: recommendationPrompt(tc, signal, analysis),
	})
	if err != nil {
		done("", err)
		return nil, fmt.Errorf("health recommendations: %w", err)
	}
	ApplyPersonalization(result, signal, tc.Direction)

	outcome := &RecommendationOutcome{Result: result}
	if err := s.persist(ctx, result); err != nil {
		s.logger.Error("Failed to store recommendations, schedule generation will be skipped",
			"runID", runID, "flight", flightKey, "error", err)
		outcome.StoreErr = err
		done("not stored", nil)
		return outcome, nil
	}
	outcome.Stored = true
	done("stored", nil)
	return outcome, nil
}

func (s *RecommendationStage) persist(ctx context.Context, result *entity.RecommendationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return entity.NewStorageIOError("encode recommendations", err)
	}
	if err := s.store.Put(ctx, entity.RecommendationStore, data); err != nil {
		return entity.NewStorageIOError("write recommendations", err)
	}
	return nil
}

// Wordings of the default one-hour pace that must not reach a high heart rate traveler.
var defaultPacePhrases = []string{
	"1 hour per day", "1 hour a day", "one hour per day", "one hour a day",
	"an hour per day", "an hour a day", "1h/day", "1 h/day", "1-hour",
}

const (
	slowPaceAdvice = "Your recent sleep heart rate is elevated, so shift your sleep schedule gradually by " +
		slowShiftPace + " rather than a full hour."
	avoidNapAdvice = "Avoid naps after arrival so your sleep pressure builds for the local night."
)

// ApplyPersonalization makes sure the result carries the advice the health signal and travel
// direction call for. For an elevated heart rate, generated pace and nap advice that contradicts
// the gradual plan is replaced rather than extended.
func ApplyPersonalization(result *entity.RecommendationResult, signal entity.HealthSignal, direction TravelDirection) {
	if result == nil {
		return
	}
	p := &result.Personalization
	sleep := &result.SleepSchedule

	if signal.IsHigh {
		advice := strings.ToLower(sleep.AdjustmentPeriodAdvice)
		if !strings.Contains(advice, slowShiftPace) || mentionsDefaultPace(advice) {
			sleep.AdjustmentPeriodAdvice = slowPaceAdvice
		}
		if strings.TrimSpace(p.RelaxationAdvice) == "" {
			p.RelaxationAdvice = "Use relaxation techniques such as slow breathing, meditation or a quiet wind-down routine before bed to lower your heart rate."
		}
		p.NapAdvice = avoidNapAdvice
		if strings.TrimSpace(sleep.NapStrategyAdvice) != "" {
			sleep.NapStrategyAdvice = avoidNapAdvice
		}
	} else if strings.TrimSpace(p.NapAdvice) == "" {
		p.NapAdvice = "If you feel tired, keep naps to 20-30 minutes and take them before mid-afternoon local time."
	}

	if strings.TrimSpace(p.LightExposureAdvice) == "" {
		if direction == DirectionEastward {
			p.LightExposureAdvice = "Seek bright morning light at your destination to advance your body clock."
		} else {
			p.LightExposureAdvice = "Avoid bright morning light and seek afternoon and evening light at your destination to delay your body clock."
		}
	}
}

func mentionsDefaultPace(advice string) bool {
	for _, phrase := range defaultPacePhrases {
		if strings.Contains(advice, phrase) {
			return true
		}
	}
	return false
}
