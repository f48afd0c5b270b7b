package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/contactform/backend/internal/model"
	"github.com/contactform/backend/internal/storage"
)

// DefaultContactsKey is the storage key of the contacts file.
const DefaultContactsKey = "contacts.json"

// FileContactRepository keeps the contact collection as a single JSON file.
// One mutex guards every load→modify→save sequence, so concurrent creates
// never share an id and never overwrite each other.
type FileContactRepository struct {
	mu    sync.Mutex
	store storage.Storage
	key   string
	now   func() time.Time
}

// NewFileContactRepository creates a FileContactRepository storing the
// collection under key in store.
func NewFileContactRepository(store storage.Storage, key string) *FileContactRepository {
	if key == "" {
		key = DefaultContactsKey
	}
	return &FileContactRepository{
		store: store,
		key:   key,
		now:   time.Now,
	}
}

// Ensure FileContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*FileContactRepository)(nil)

// Load reads the collection. A missing or unparseable file is treated as an
// empty collection; only other read failures are returned.
func (r *FileContactRepository) Load(ctx context.Context) ([]model.Contact, error) {
	data, err := r.store.Read(ctx, r.key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Contact{}, nil
		}
		return nil, persistErr("load contacts", err)
	}

	var contacts []model.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		slog.Warn("contacts file unreadable, treating as empty", "key", r.key, "error", err)
		return []model.Contact{}, nil
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return contacts, nil
}

// NextID returns one more than the highest id in contacts, or 1 when empty.
func NextID(contacts []model.Contact) int64 {
	var highest int64
	for _, c := range contacts {
		if c.ID > highest {
			highest = c.ID
		}
	}
	return highest + 1
}

// Save replaces the durable collection with contacts.
func (r *FileContactRepository) Save(ctx context.Context, contacts []model.Contact) error {
	if contacts == nil {
		contacts = []model.Contact{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(contacts); err != nil {
		return persistErr("encode contacts", err)
	}

	if err := r.store.Write(ctx, r.key, &buf); err != nil {
		return persistErr("save contacts", err)
	}
	return nil
}

// Create implements ContactRepository.
func (r *FileContactRepository) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	c := model.NewContact(in, NextID(contacts), r.now().UTC().Format(time.RFC3339Nano))
	if err := r.Save(ctx, append(contacts, c)); err != nil {
		return nil, err
	}
	return &c, nil
}

// List implements ContactRepository.
func (r *FileContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Load(ctx)
}

// Clear implements ContactRepository. An empty collection is left untouched.
func (r *FileContactRepository) Clear(ctx context.Context) ([]model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return contacts, nil
	}
	if err := r.Save(ctx, nil); err != nil {
		return nil, err
	}
	return contacts, nil
}

// Ping checks that the storage root is usable.
func (r *FileContactRepository) Ping(ctx context.Context) error {
	return r.store.Check(ctx)
}
