package repository

import "context"

// BlobStore is a named document store with overwrite semantics. Get returns entity.ErrNotFound
// when nothing was ever written under name.
type BlobStore interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
}
