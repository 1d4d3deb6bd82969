package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"
)

// StripCodeFences removes a leading ``` or ```json marker and a trailing ``` marker. The content
// may follow the marker on the same line.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = stripLanguageTag(strings.TrimPrefix(text, "```"))
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// stripLanguageTag drops a tag such as "json" that is directly followed by whitespace or the
// start of the document.
func stripLanguageTag(text string) string {
	tagEnd := strings.IndexFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
	if tagEnd <= 0 {
		return text
	}
	if next := rune(text[tagEnd]); next == '[' || next == '{' || unicode.IsSpace(next) {
		return text[tagEnd:]
	}
	return text
}

// ParseScheduleEvents strips fences and decodes a JSON array of events.
func ParseScheduleEvents(text string) ([]entity.ScheduleEvent, error) {
	var events []entity.ScheduleEvent
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CalendarReader serves the calendar store to readers.
type CalendarReader struct {
	store     repository.BlobStore
	storeName string
	logger    logger.Logger
}

// NewCalendarReader creates a new calendar reader
func NewCalendarReader(store repository.BlobStore, logger logger.Logger) *CalendarReader {
	return &CalendarReader{store: store, storeName: entity.CalendarStore, logger: logger}
}

// Events returns the stored calendar. A missing store, a read failure or unparseable content
// all yield an empty list.
func (r *CalendarReader) Events(ctx context.Context) []entity.ScheduleEvent {
	data, err := r.store.Get(ctx, r.storeName)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			r.logger.Warn("Failed to read calendar store", "error", err)
		}
		return []entity.ScheduleEvent{}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []entity.ScheduleEvent{}
	}

	events, err := ParseScheduleEvents(string(data))
	if err != nil {
		r.logger.Warn("Calendar store content is not a valid event list", "error", err)
		return []entity.ScheduleEvent{}
	}
	if events == nil {
		return []entity.ScheduleEvent{}
	}
	return events
}
