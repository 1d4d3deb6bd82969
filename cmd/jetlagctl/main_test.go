package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jetlag-advisor/internal/domain/entity"
)

func storeEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("POSTGRES_DSN", "")
	return dir
}

func writeStore(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalendarCommandPrintsStoredEvents(t *testing.T) {
	dir := storeEnv(t)
	writeStore(t, dir, entity.CalendarStore, []byte("```json\n"+`[
  {"id":"1","title":"Wake up","start":"2025-03-31T15:00:00Z","end":"2025-03-31T15:15:00Z"},
  {"id":"2","title":"Flight UA2116 departs SFO","start":"2025-03-31T21:55:00Z","end":"2025-03-31T21:55:00Z"}
]`+"\n```"))

	out, err := execute(t, "calendar")
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	for _, want := range []string{"Wake up", "Flight UA2116 departs SFO", "15m0s", "TOTAL"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCalendarCommandEmptyStoreAsJSON(t *testing.T) {
	storeEnv(t)

	out, err := execute(t, "calendar", "--json")
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected an empty list, got %q", out)
	}
}

func TestHealthCommandReportsHighSignal(t *testing.T) {
	dir := storeEnv(t)
	sleepStart := time.Now().UTC().Add(-20 * time.Hour)
	snapshot := entity.HealthSnapshot{
		SleepRecords: []entity.SleepSession{{ID: "night-1", StartTime: sleepStart, EndTime: sleepStart.Add(8 * time.Hour)}},
		HeartRateRecords: []entity.HeartRateRecord{{Samples: []entity.HeartRateSample{
			{Time: sleepStart.Add(time.Hour), BeatsPerMinute: 78},
			{Time: sleepStart.Add(3 * time.Hour), BeatsPerMinute: 84},
		}}},
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatal(err)
	}
	writeStore(t, dir, entity.HealthDataStore, data)

	out, err := execute(t, "health", "--json")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	var signal entity.HealthSignal
	if err := json.Unmarshal([]byte(out), &signal); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !signal.IsHigh || !signal.HasAverage() || *signal.AverageSleepHeartRate != 81 {
		t.Fatalf("unexpected signal %+v", signal)
	}
}

func TestHealthCommandWithoutDataPrintsReason(t *testing.T) {
	storeEnv(t)

	out, err := execute(t, "health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "n/a") {
		t.Fatalf("expected no average in output:\n%s", out)
	}
}

func TestJobCommandRequiresPostgres(t *testing.T) {
	storeEnv(t)

	if _, err := execute(t, "job", "some-job"); err == nil || !strings.Contains(err.Error(), "POSTGRES_DSN") {
		t.Fatalf("expected POSTGRES_DSN error, got %v", err)
	}
}

func TestRecommendCommandValidatesDate(t *testing.T) {
	storeEnv(t)

	_, err := execute(t, "recommend", "--carrier", "UA", "--number", "2116", "--date", "31/03/2025")
	if err == nil || !strings.Contains(err.Error(), "YYYY-MM-DD") {
		t.Fatalf("expected date validation error, got %v", err)
	}
}
