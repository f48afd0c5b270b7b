package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/contactform/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
// Ids are allocated inside the inserting transaction while holding a table
// lock that conflicts with itself, so concurrent creates are serialized.
type PgContactRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool, now: time.Now}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

const lockContacts = `LOCK TABLE contacts IN SHARE ROW EXCLUSIVE MODE`

const contactColumns = `id, name, email, subject, message, phone, company, created_at, is_deleted`

// Create implements ContactRepository.
func (r *PgContactRepository) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	var created model.Contact
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockContacts); err != nil {
			return err
		}
		var next int64
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM contacts`).Scan(&next); err != nil {
			return err
		}
		created = model.NewContact(in, next, r.now().UTC().Format(time.RFC3339Nano))
		_, err := tx.Exec(ctx,
			`INSERT INTO contacts (`+contactColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			created.ID, created.Name, created.Email, created.Subject, created.Message,
			created.Phone, created.Company, created.CreatedAt, created.IsDeleted,
		)
		return err
	})
	if err != nil {
		return nil, persistErr("save contact", err)
	}
	return &created, nil
}

// List implements ContactRepository.
func (r *PgContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, persistErr("load contacts", err)
	}
	contacts, err := scanContacts(rows)
	if err != nil {
		return nil, persistErr("load contacts", err)
	}
	return contacts, nil
}

// Clear implements ContactRepository.
func (r *PgContactRepository) Clear(ctx context.Context) ([]model.Contact, error) {
	var removed []model.Contact
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockContacts); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `DELETE FROM contacts RETURNING `+contactColumns)
		if err != nil {
			return err
		}
		removed, err = scanContacts(rows)
		return err
	})
	if err != nil {
		return nil, persistErr("delete contacts", err)
	}
	slices.SortFunc(removed, func(a, b model.Contact) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return removed, nil
}

// Ping checks database connectivity.
func (r *PgContactRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanContacts(rows pgx.Rows) ([]model.Contact, error) {
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message,
			&c.Phone, &c.Company, &c.CreatedAt, &c.IsDeleted); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// Import bulk-loads contacts with their existing ids and timestamps, e.g.
// from a contacts.json file. The table must be empty.
func (r *PgContactRepository) Import(ctx context.Context, contacts []model.Contact) (int64, error) {
	var copied int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockContacts); err != nil {
			return err
		}
		var existing int64
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&existing); err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("contacts table already holds %d rows", existing)
		}

		var err error
		copied, err = tx.CopyFrom(ctx,
			pgx.Identifier{"contacts"},
			[]string{"id", "name", "email", "subject", "message", "phone", "company", "created_at", "is_deleted"},
			pgx.CopyFromSlice(len(contacts), func(i int) ([]any, error) {
				c := contacts[i]
				return []any{c.ID, c.Name, c.Email, c.Subject, c.Message, c.Phone, c.Company, c.CreatedAt, c.IsDeleted}, nil
			}),
		)
		return err
	})
	if err != nil {
		return 0, persistErr("import contacts", err)
	}
	return copied, nil
}
