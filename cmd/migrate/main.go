package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/contactform/backend/internal/logging"
	"github.com/contactform/backend/internal/model"
	"github.com/contactform/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [flags] [command]

Commands:
  (default)        apply pending migrations
  reset            drop all tables and recreate them from the consolidated schema
  fresh            drop all tables and apply every migration in order
  import <file>    load a contacts JSON file into the (empty) contacts table

Flags:`)
	pflag.PrintDefaults()
	os.Exit(1)
}

func main() {
	migrationDir := pflag.String("migrations", "", "migrations directory (default: ./migrations or ../migrations)")
	envFile := pflag.String("env-file", ".env", "dotenv file to load")
	pflag.Usage = usage
	pflag.Parse()

	_ = godotenv.Load(*envFile)
	logging.Setup(os.Getenv("LOG_LEVEL"))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logging.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, dbURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	dir := *migrationDir
	if dir == "" {
		dir = findMigrationDir()
	}

	args := pflag.Args()
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "":
		runIncremental(ctx, pool, dir)
	case "reset":
		runDropAll(ctx, pool, dir)
		runConsolidated(ctx, pool, dir)
	case "fresh":
		runDropAll(ctx, pool, dir)
		runIncremental(ctx, pool, dir)
	case "import":
		if len(args) != 2 {
			usage()
		}
		runImport(ctx, pool, args[1])
	default:
		usage()
	}
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

// collectUpFiles returns the sorted names of the .up.sql files in dir.
func collectUpFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		logging.Fatal("create schema_migrations failed", "error", err)
	}
}

func mustCollectUpFiles(dir string) []string {
	files, err := collectUpFiles(dir)
	if err != nil {
		logging.Fatal("read migrations dir failed", "dir", dir, "error", err)
	}
	return files
}

// runIncremental applies every migration not yet recorded in schema_migrations.
func runIncremental(ctx context.Context, pool *pgxpool.Pool, dir string) {
	ensureSchemaMigrations(ctx, pool)

	applied := 0
	for i, filename := range mustCollectUpFiles(dir) {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			logging.Fatal("check migration failed", "migration", name, "error", err)
		}
		if exists {
			continue
		}

		sql, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			logging.Fatal("read migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logging.Fatal("migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			logging.Fatal("record migration failed", "migration", name, "error", err)
		}
		applied++
		slog.Info("migration completed", "number", i+1, "migration", name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
}

func runDropAll(ctx context.Context, pool *pgxpool.Pool, dir string) {
	slog.Info("dropping all tables")
	sql, err := os.ReadFile(filepath.Join(dir, "000_drop_all.sql"))
	if err != nil {
		logging.Fatal("read 000_drop_all.sql failed", "error", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		logging.Fatal("drop all failed", "error", err)
	}
	slog.Info("all tables dropped")
}

// runConsolidated applies 000_consolidated.sql and marks every migration as applied.
func runConsolidated(ctx context.Context, pool *pgxpool.Pool, dir string) {
	slog.Info("applying consolidated schema")
	sql, err := os.ReadFile(filepath.Join(dir, "000_consolidated.sql"))
	if err != nil {
		logging.Fatal("read 000_consolidated.sql failed", "error", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		logging.Fatal("consolidated apply failed", "error", err)
	}

	ensureSchemaMigrations(ctx, pool)
	upFiles := mustCollectUpFiles(dir)
	for _, filename := range upFiles {
		name := strings.TrimSuffix(filename, ".up.sql")
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", name); err != nil {
			logging.Fatal("record migration failed", "migration", name, "error", err)
		}
	}
	slog.Info("consolidated schema applied", "migrations_marked", len(upFiles))
}

// runImport copies the records of a contacts JSON file into postgres,
// keeping their ids and timestamps.
func runImport(ctx context.Context, pool *pgxpool.Pool, path string) {
	contacts, err := readContactsFile(path)
	if err != nil {
		logging.Fatal("read contacts file failed", "path", path, "error", err)
	}
	n, err := repository.NewPgContactRepository(pool).Import(ctx, contacts)
	if err != nil {
		logging.Fatal("import failed", "path", path, "error", err)
	}
	slog.Info("contacts imported", "path", path, "count", n)
}

// readContactsFile parses a contacts file and rejects duplicate or
// non-positive ids, which the contacts table cannot hold.
func readContactsFile(path string) ([]model.Contact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var contacts []model.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	seen := make(map[int64]bool, len(contacts))
	for i, c := range contacts {
		if c.ID <= 0 {
			return nil, fmt.Errorf("record %d: id must be positive, got %d", i, c.ID)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("record %d: duplicate id %d", i, c.ID)
		}
		seen[c.ID] = true
	}
	return contacts, nil
}
