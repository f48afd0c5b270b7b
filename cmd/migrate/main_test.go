package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCollectUpFiles_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.up.sql", "001_a.up.sql", "001_a.down.sql", "000_drop_all.sql", "notes.txt"} {
		writeFile(t, dir, name, "")
	}
	if err := os.Mkdir(filepath.Join(dir, "003_dir.up.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := collectUpFiles(dir)
	if err != nil {
		t.Fatalf("collectUpFiles: %v", err)
	}
	want := []string{"001_a.up.sql", "002_b.up.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestCollectUpFiles_RepositoryMigrations(t *testing.T) {
	got, err := collectUpFiles("../../migrations")
	if err != nil {
		t.Fatalf("collectUpFiles: %v", err)
	}
	if len(got) == 0 || got[0] != "001_create_contacts.up.sql" {
		t.Errorf("expected contacts migration first, got %v", got)
	}
}

func TestReadContactsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "contacts.json", `[
  {"id": 1, "name": "A", "email": "a@b.com", "subject": "S", "message": "M", "phone": null, "company": "ACME", "createdAt": "2025-01-01T10:00:00.123456", "isDeleted": false},
  {"id": 3, "name": "B", "email": "b@b.com", "subject": "S", "message": "M", "createdAt": "2025-01-02T10:00:00", "isDeleted": true}
]`)

	got, err := readContactsFile(path)
	if err != nil {
		t.Fatalf("readContactsFile: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected contacts %+v", got)
	}
	if got[0].Company == nil || *got[0].Company != "ACME" || got[0].Phone != nil {
		t.Errorf("optional fields not parsed: %+v", got[0])
	}
	if !got[1].IsDeleted {
		t.Error("expected isDeleted=true on second record")
	}
}

func TestReadContactsFile_Rejects(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"duplicate.json": `[{"id": 1}, {"id": 1}]`,
		"zero.json":      `[{"id": 0}]`,
		"corrupt.json":   `{not json`,
	}
	for name, content := range tests {
		path := writeFile(t, dir, name, content)
		if _, err := readContactsFile(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	if _, err := readContactsFile(filepath.Join(dir, "missing.json")); err == nil || !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("expected not-found error, got %v", err)
	}
}
