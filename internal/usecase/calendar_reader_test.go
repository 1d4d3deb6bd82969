package usecase

import (
	"context"
	"errors"
	"testing"

	"jetlag-advisor/internal/domain/entity"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n[1]\n```", "[1]"},
		{"```\n[1]\n```\n", "[1]"},
		{"  [1]  ", "[1]"},
		{"```[1]```", "[1]"},
		{"```json [1] ```", "[1]"},
		{"```json[1]```", "[1]"},
		{"```JSON {\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := StripCodeFences(tt.in); got != tt.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCalendarReaderEvents(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		getErr  error
		want    int
	}{
		{name: "fenced content", content: strPtr("```json\n[{\"id\":\"1\",\"title\":\"Wake\",\"start\":\"2025-04-01T17:00:00Z\",\"end\":\"2025-04-01T17:10:00Z\"}]\n```"), want: 1},
		{name: "single line fence", content: strPtr("```json [{\"id\":\"1\"},{\"id\":\"2\"}] ```"), want: 2},
		{name: "plain content", content: strPtr(`[{"id":"1"},{"id":"2"}]`), want: 2},
		{name: "missing store", want: 0},
		{name: "malformed json", content: strPtr("```json\n[{\"id\": \n```"), want: 0},
		{name: "empty file", content: strPtr(""), want: 0},
		{name: "json null", content: strPtr("null"), want: 0},
		{name: "read failure", getErr: errors.New("permission denied"), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			store.GetErr = tt.getErr
			if tt.content != nil {
				store.data[entity.CalendarStore] = []byte(*tt.content)
			}
			events := NewCalendarReader(store, testLogger).Events(context.Background())
			if events == nil {
				t.Fatalf("events must be an empty list, not nil")
			}
			if len(events) != tt.want {
				t.Fatalf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
