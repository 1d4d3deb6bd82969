package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"
)

const (
	// DefaultHealthWindowDays is the trailing period sleep sessions are drawn from.
	DefaultHealthWindowDays = 3
	// DefaultHighHeartRateThreshold is the average sleep heart rate above which pacing slows down.
	DefaultHighHeartRateThreshold = 70.0
)

// HealthCorrelator derives the average sleep heart rate from the persisted sensor snapshot.
type HealthCorrelator struct {
	snapshots  repository.HealthSnapshotRepository
	windowDays int
	threshold  float64
	now        func() time.Time
	logger     logger.Logger
}

// HealthCorrelatorOption customizes a HealthCorrelator.
type HealthCorrelatorOption func(*HealthCorrelator)

// WithWindowDays overrides the trailing window. Non-positive values are ignored.
func WithWindowDays(days int) HealthCorrelatorOption {
	return func(c *HealthCorrelator) {
		if days > 0 {
			c.windowDays = days
		}
	}
}

// WithHighThreshold overrides the heart rate threshold.
func WithHighThreshold(bpm float64) HealthCorrelatorOption {
	return func(c *HealthCorrelator) {
		if bpm > 0 {
			c.threshold = bpm
		}
	}
}

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) HealthCorrelatorOption {
	return func(c *HealthCorrelator) {
		c.now = now
	}
}

// NewHealthCorrelator creates a new health correlator
func NewHealthCorrelator(snapshots repository.HealthSnapshotRepository, logger logger.Logger, opts ...HealthCorrelatorOption) *HealthCorrelator {
	c := &HealthCorrelator{
		snapshots:  snapshots,
		windowDays: DefaultHealthWindowDays,
		threshold:  DefaultHighHeartRateThreshold,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Signal loads the snapshot and computes the signal. It never fails: a missing or unreadable
// snapshot yields a signal with no average and a reason.
func (c *HealthCorrelator) Signal(ctx context.Context) entity.HealthSignal {
	snapshot, err := c.snapshots.Load(ctx)
	if err != nil {
		reason := "health snapshot unavailable"
		if errors.Is(err, entity.ErrNotFound) {
			reason = "no health snapshot has been ingested"
		} else {
			c.logger.Warn("Failed to load health snapshot", "error", err)
		}
		return entity.HealthSignal{WindowDays: c.windowDays, Reason: reason}
	}
	return c.Correlate(*snapshot)
}

// Correlate computes the average heart rate of samples falling inside recent sleep sessions.
func (c *HealthCorrelator) Correlate(snapshot entity.HealthSnapshot) entity.HealthSignal {
	signal := entity.HealthSignal{WindowDays: c.windowDays}

	if len(snapshot.SleepRecords) == 0 {
		signal.Reason = "no sleep sessions recorded"
		return signal
	}

	cutoff := c.now().UTC().Add(-time.Duration(c.windowDays) * 24 * time.Hour)
	sessions := make([]entity.SleepSession, 0, len(snapshot.SleepRecords))
	for _, session := range snapshot.SleepRecords {
		if !session.StartTime.Before(cutoff) {
			sessions = append(sessions, session)
		}
	}
	if len(sessions) == 0 {
		signal.Reason = fmt.Sprintf("no sleep sessions in the last %d days", c.windowDays)
		return signal
	}

	samples := flattenSamples(snapshot.HeartRateRecords)
	if len(samples) == 0 {
		signal.Reason = "no heart rate samples recorded"
		return signal
	}

	var total float64
	var count int
	for _, session := range sessions {
		sum, n := sumWithin(samples, session.StartTime, session.EndTime)
		if n > 0 {
			signal.SessionsUsed++
		}
		total += sum
		count += n
	}
	if count == 0 {
		signal.Reason = "no heart rate samples overlap recent sleep sessions"
		return signal
	}

	avg := total / float64(count)
	signal.AverageSleepHeartRate = &avg
	signal.SamplesUsed = count
	signal.IsHigh = avg > c.threshold
	return signal
}

// flattenSamples merges every record's samples into one timestamp-ordered slice.
func flattenSamples(records []entity.HeartRateRecord) []entity.HeartRateSample {
	var samples []entity.HeartRateSample
	for _, record := range records {
		samples = append(samples, record.Samples...)
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})
	return samples
}

// sumWithin sums samples with start <= time <= end. samples must be sorted.
func sumWithin(samples []entity.HeartRateSample, start, end time.Time) (float64, int) {
	first := sort.Search(len(samples), func(i int) bool {
		return !samples[i].Time.Before(start)
	})
	var sum float64
	var n int
	for i := first; i < len(samples) && !samples[i].Time.After(end); i++ {
		sum += samples[i].BeatsPerMinute
		n++
	}
	return sum, n
}
