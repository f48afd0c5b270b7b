package repository

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/contactform/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// newTestPool connects to TEST_DATABASE_URL and recreates the contacts table.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../migrations/001_create_contacts.up.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS contacts"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("create: %v", err)
	}
	return pool
}

func TestPgContactRepository_CreateListClear(t *testing.T) {
	repo := NewPgContactRepository(newTestPool(t))
	ctx := context.Background()

	in := sampleInput("Alice")
	in.Phone = strPtr("555-0100")
	first, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("expected id=1, got %d", first.ID)
	}
	second, err := repo.Create(ctx, sampleInput("Bob"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("expected id=2, got %d", second.ID)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Alice" || list[1].Name != "Bob" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[0].Phone == nil || *list[0].Phone != "555-0100" {
		t.Errorf("expected phone to round trip, got %v", list[0].Phone)
	}
	if list[1].Phone != nil {
		t.Errorf("expected NULL phone, got %q", *list[1].Phone)
	}

	removed, err := repo.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(removed) != 2 || removed[0].ID != 1 || removed[1].ID != 2 {
		t.Errorf("unexpected removed %+v", removed)
	}

	list, _ = repo.List(ctx)
	if len(list) != 0 {
		t.Errorf("expected empty after Clear, got %+v", list)
	}
}

func TestPgContactRepository_ConcurrentCreates(t *testing.T) {
	repo := NewPgContactRepository(newTestPool(t))
	ctx := context.Background()
	const n = 20

	var (
		mu  sync.Mutex
		ids []int
		wg  sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := repo.Create(ctx, sampleInput(fmt.Sprintf("User%d", i)))
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			mu.Lock()
			ids = append(ids, int(c.ID))
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	sort.Ints(ids)
	for i, id := range ids {
		if id != i+1 {
			t.Fatalf("expected ids 1..%d, got %v", n, ids)
		}
	}
}

func TestPgContactRepository_Import(t *testing.T) {
	repo := NewPgContactRepository(newTestPool(t))
	ctx := context.Background()

	contacts := []model.Contact{
		{ID: 5, Name: "A", Email: "a@b.com", Subject: "S", Message: "M", CreatedAt: "2025-01-01T00:00:00"},
		{ID: 9, Name: "B", Email: "b@b.com", Subject: "S", Message: "M", CreatedAt: "2025-01-02T00:00:00", IsDeleted: true},
	}
	n, err := repo.Import(ctx, contacts)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}

	c, err := repo.Create(ctx, sampleInput("Carol"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 10 {
		t.Errorf("expected id=10 after import, got %d", c.ID)
	}

	if _, err := repo.Import(ctx, contacts); err == nil {
		t.Error("expected Import into non-empty table to fail")
	}
}
