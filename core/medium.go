package core

import "context"

// Medium is a durable key/value store holding whole JSON records,
// like the browser's local storage.
type Medium interface {
	// Get returns ErrKeyNotFound when no record is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put returns ErrStorageFull when the medium rejects the write for lack of space.
	Put(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for unknown keys.
	Delete(ctx context.Context, key string) error
	Close() error
}
