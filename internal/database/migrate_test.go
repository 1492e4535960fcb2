package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	_ "gorm.io/driver/sqlite"
)

func writeMigration(t *testing.T, dir, name, body string) {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write migration: %v", err)
	}
}

func TestRunMigrationsAppliesOnce(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	dir := t.TempDir()
	writeMigration(t, dir, "002_seed.sql", "INSERT INTO kv (k, v) VALUES ('currency', 'RM');")
	writeMigration(t, dir, "001_create.sql", "CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT NOT NULL);")
	writeMigration(t, dir, "README.md", "not a migration")

	ctx := context.Background()
	applied, err := RunMigrations(ctx, db, dir, zap.NewNop())
	if err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	if len(applied) != 2 || applied[0] != "001_create" || applied[1] != "002_seed" {
		t.Fatalf("unexpected applied versions: %v", applied)
	}

	applied, err = RunMigrations(ctx, db, dir, zap.NewNop())
	if err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("expected nothing to apply, got %v", applied)
	}

	var value string
	if err := db.QueryRow("SELECT v FROM kv WHERE k = 'currency'").Scan(&value); err != nil {
		t.Fatalf("failed to read seeded row: %v", err)
	}
	if value != "RM" {
		t.Errorf("expected RM, got %q", value)
	}
}

func TestRunMigrationsStopsOnFailure(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	dir := t.TempDir()
	writeMigration(t, dir, "001_create.sql", "CREATE TABLE kv (k TEXT PRIMARY KEY);")
	writeMigration(t, dir, "002_broken.sql", "INSERT INTO missing_table VALUES (1);")

	applied, err := RunMigrations(context.Background(), db, dir, zap.NewNop())
	if err == nil {
		t.Fatal("expected broken migration to fail")
	}
	if len(applied) != 1 {
		t.Errorf("expected only the first migration applied, got %v", applied)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = '002_broken'").Scan(&count); err != nil {
		t.Fatalf("failed to query schema_migrations: %v", err)
	}
	if count != 0 {
		t.Error("failed migration must not be recorded")
	}
}
