package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"jetlag-advisor/internal/domain/entity"
)

func TestFileBlobStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileBlobStore(dir)
	if err != nil {
		t.Fatalf("NewFileBlobStore: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Get(ctx, entity.RecommendationStore); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first write, got %v", err)
	}

	if err := store.Put(ctx, entity.RecommendationStore, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, entity.RecommendationStore, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx, entity.RecommendationStore)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Fatalf("expected last write to win, got %s", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != entity.RecommendationStore+".json" {
		t.Fatalf("expected only the store file, found %v", entries)
	}
}

func TestFileBlobStoreRejectsPathNames(t *testing.T) {
	store, err := NewFileBlobStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "../escape", "a/b", `a\b`} {
		if err := store.Put(context.Background(), name, []byte("x")); err == nil {
			t.Errorf("expected Put(%q) to fail", name)
		}
	}
}

func TestFileBlobStoreHonoursCancelledContext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileBlobStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(ctx, entity.CalendarStore, []byte("[]")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if _, err := os.Stat(filepath.Join(dir, entity.CalendarStore+".json")); !os.IsNotExist(err) {
		t.Fatalf("store file should not exist, stat err = %v", err)
	}
}

func TestLockedBlobStoreConcurrentWriters(t *testing.T) {
	inner, err := NewFileBlobStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := NewLockedBlobStore(inner)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := entity.RecommendationStore
			if i%2 == 0 {
				name = entity.CalendarStore
			}
			if err := store.Put(ctx, name, []byte(`{"writer":true}`)); err != nil {
				t.Errorf("Put: %v", err)
			}
			if _, err := store.Get(ctx, name); err != nil {
				t.Errorf("Get: %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func TestBlobHealthSnapshotRepository(t *testing.T) {
	inner, err := NewFileBlobStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	repo := NewBlobHealthSnapshotRepository(inner)
	ctx := context.Background()

	if _, err := repo.Load(ctx); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	snapshot := &entity.HealthSnapshot{
		SleepRecords: []entity.SleepSession{{ID: "s1"}},
	}
	if err := repo.Save(ctx, snapshot); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.SleepRecords) != 1 || loaded.SleepRecords[0].ID != "s1" {
		t.Fatalf("unexpected snapshot %+v", loaded)
	}
}
