package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Match Tags!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_match_tags.sql") {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "oops.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename error")
	}

	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20260101000000_no_down.sql"), []byte("-- +goose Up\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected missing down section error")
	}
}

func TestCreateSQLMigrationRefusesExistingVersion(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 1, 9, 8, 0, 0, time.UTC)
	path, err := createSQLMigration(dir, "seed games", at)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Base(path) != "20260301090800_seed_games.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if _, err := createSQLMigration(dir, "seed games", at); err == nil {
		t.Fatal("expected collision error")
	}
	if _, err := createSQLMigration(dir, "!!!", at); err == nil {
		t.Fatal("expected empty slug error")
	}
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"20260101000000_first.sql":    "-- +goose Up\n-- +goose Down\n",
		"20260101000000_dup.sql":      "-- +goose Up\n-- +goose Down\n",
		"20260101000001_reversed.sql": "-- +goose Down\n-- +goose Up\n",
		"notes.txt":                   "ignored",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	err := ValidateDir(dir)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "already used") || !strings.Contains(msg, "precedes Up") {
		t.Fatalf("expected duplicate and ordering problems, got %q", msg)
	}
}

func TestParseVersion(t *testing.T) {
	if _, err := ParseVersion(""); err == nil {
		t.Fatal("expected error for empty version")
	}
	if _, err := ParseVersion("2026"); err == nil {
		t.Fatal("expected error for short version")
	}
	v, err := ParseVersion("20260301090200")
	if err != nil || v != 20260301090200 {
		t.Fatalf("unexpected parse result %d, %v", v, err)
	}
}
