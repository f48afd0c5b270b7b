package repository

import (
	"context"

	"github.com/contactform/backend/internal/model"
)

// DB checks that the backing store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository owns the durable contact collection.
// Every method is safe for concurrent use; Create and Clear each run as a
// single critical section against the whole collection.
type ContactRepository interface {
	DB

	// Create assigns the next id and a creation timestamp, appends the
	// record, and persists the collection. The record is returned only
	// once it is durable.
	Create(ctx context.Context, in model.ContactInput) (*model.Contact, error)

	// List returns the full collection in insertion order.
	List(ctx context.Context) ([]model.Contact, error)

	// Clear empties the collection and returns what was removed, in
	// insertion order.
	Clear(ctx context.Context) ([]model.Contact, error)
}
