package storage

import (
	"context"
	"io"
)

// Storage abstracts the durable medium behind a file-backed store.
// Keys are slash-separated paths relative to the storage root.
type Storage interface {
	// Read returns the full contents stored under key. When nothing is
	// stored, the returned error wraps os.ErrNotExist.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the contents under key. A reader never observes a
	// partially written value: either the previous contents or the new
	// contents are visible, nothing in between.
	Write(ctx context.Context, key string, data io.Reader) error

	// Check reports whether the storage root is usable.
	Check(ctx context.Context) error
}
