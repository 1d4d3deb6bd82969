package repository

import (
	"context"
	"sync"

	"jetlag-advisor/internal/domain/repository"
)

// LockedBlobStore serializes every Get and Put through one mutex. The same mutex is shared by
// all names held in the store, so recommendation and calendar traffic exclude each other.
type LockedBlobStore struct {
	mu    sync.Mutex
	inner repository.BlobStore
}

// NewLockedBlobStore wraps inner with a single coarse lock.
func NewLockedBlobStore(inner repository.BlobStore) *LockedBlobStore {
	return &LockedBlobStore{inner: inner}
}

func (s *LockedBlobStore) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Get(ctx, name)
}

func (s *LockedBlobStore) Put(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Put(ctx, name, data)
}
