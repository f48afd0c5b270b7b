package service

import (
	"context"

	"github.com/contactform/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Create validates in and stores a new contact. The returned record
	// carries the store-assigned id and creation timestamp.
	Create(ctx context.Context, in model.ContactInput) (*model.Contact, error)

	// List returns every stored contact in insertion order.
	List(ctx context.Context) ([]model.Contact, error)

	// ClearAll removes every contact and reports what was removed.
	ClearAll(ctx context.Context) (*model.ClearResult, error)
}
