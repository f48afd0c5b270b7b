package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contactform/backend/internal/model"
	"github.com/contactform/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo}
}

// Create rejects malformed input with a *model.ValidationError before
// touching the repository.
func (s *contactServiceImpl) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	slog.Info("contact created", "id", c.ID)
	return c, nil
}

func (s *contactServiceImpl) List(ctx context.Context) ([]model.Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return contacts, nil
}

// ClearAll empties the repository. Clearing an empty collection is not an
// error; it reports zero removed.
func (s *contactServiceImpl) ClearAll(ctx context.Context) (*model.ClearResult, error) {
	removed, err := s.repo.Clear(ctx)
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return &model.ClearResult{
			Message:         "No contacts to delete",
			DeletedCount:    0,
			DeletedContacts: []model.Contact{},
		}, nil
	}
	slog.Info("contacts cleared", "count", len(removed))
	return &model.ClearResult{
		Message:         fmt.Sprintf("All %d contacts deleted successfully", len(removed)),
		DeletedCount:    len(removed),
		DeletedContacts: removed,
	}, nil
}
