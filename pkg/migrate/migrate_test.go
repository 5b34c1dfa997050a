package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDialect(t *testing.T) {
	cases := map[string]string{"sqlite": "sqlite3", "postgres": "postgres"}
	for driver, want := range cases {
		got, err := Dialect(driver)
		if err != nil || got != want {
			t.Fatalf("Dialect(%q) = %q, %v; want %q", driver, got, err, want)
		}
	}
	if _, err := Dialect("mysql"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestUpCreatesSchemaOnSQLite(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	if err := Up(ctx, db, "sqlite"); err != nil {
		t.Fatalf("up: %v", err)
	}
	for _, table := range []string{"categories", "items", "item_dependencies", "projects", "boq_lines"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}

	version, err := Version(db, "sqlite")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 20260301091500 {
		t.Fatalf("unexpected version %d", version)
	}

	if err := MigrateToVersion(ctx, db, "sqlite", "20260301090000"); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'projects'`).Scan(&count); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 0 {
		t.Fatal("expected projects table to be dropped")
	}
}

func TestRunRequiresDB(t *testing.T) {
	if err := Run(context.Background(), nil, "sqlite", "up"); err == nil {
		t.Fatal("expected error without db")
	}
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	if err := ValidateEmbedded(); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
}

func TestValidateDirRejectsNonPortableSQL(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\nCREATE TABLE t (id SERIAL PRIMARY KEY);\n-- +goose Down\nDROP TABLE t;\n"
	if err := os.WriteFile(filepath.Join(dir, "20260101000000_bad.sql"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := ValidateDir(dir)
	if err == nil || !strings.Contains(err.Error(), "serial column") {
		t.Fatalf("expected portability error, got %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	path, err := createSQLMigration(dir, "Add Item Notes!", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20260302100000_add_item_notes.sql" {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := createSQLMigration(dir, "add item notes", now); err == nil {
		t.Fatal("expected duplicate migration to fail")
	}
	if _, err := CreateSQLMigration(dir, "  "); err == nil {
		t.Fatal("expected empty name to fail")
	}
}
