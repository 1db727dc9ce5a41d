package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // Intentionally ignoring close error in test cleanup

	return database
}

func TestOpen(t *testing.T) {
	t.Run("creates parent directories and file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", FileName)

		database, err := Open(dbPath)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = database.Close() }() //nolint:errcheck // Intentionally ignoring close error in test cleanup

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if database.Path() != dbPath {
			t.Errorf("Path() = %q, want %q", database.Path(), dbPath)
		}
	})

	t.Run("runs migrations", func(t *testing.T) {
		database := openTestDB(t)

		for _, table := range []string{"assistants", "topics", "messages"} {
			var name string
			err := database.QueryRowContext(context.Background(),
				"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			if err != nil {
				t.Fatalf("%s table not created: %v", table, err)
			}
		}
	})

	t.Run("reopening an existing database is idempotent", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		first, err := Open(dbPath)
		if err != nil {
			t.Fatalf("first Open() error = %v", err)
		}
		_ = first.Close() //nolint:errcheck // Test only

		second, err := Open(dbPath)
		if err != nil {
			t.Fatalf("second Open() error = %v", err)
		}
		_ = second.Close() //nolint:errcheck // Test only
	})

	t.Run("enables WAL mode and foreign keys", func(t *testing.T) {
		database := openTestDB(t)
		ctx := context.Background()

		var journalMode string
		if err := database.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
			t.Fatalf("failed to get journal_mode: %v", err)
		}
		if journalMode != "wal" {
			t.Errorf("journal_mode = %q, want %q", journalMode, "wal")
		}

		var foreignKeys int
		if err := database.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
			t.Fatalf("failed to get foreign_keys: %v", err)
		}
		if foreignKeys != 1 {
			t.Errorf("foreign_keys = %d, want 1", foreignKeys)
		}
	})
}

func TestDB_WithTx(t *testing.T) {
	ctx := context.Background()
	insert := `INSERT INTO assistants (id, name, prompt, created_at, updated_at) VALUES (?, 'a', '', 0, 0)`

	count := func(t *testing.T, database *DB) int {
		t.Helper()
		var n int
		if err := database.QueryRowContext(ctx, "SELECT COUNT(*) FROM assistants").Scan(&n); err != nil {
			t.Fatalf("count error = %v", err)
		}
		return n
	}

	t.Run("commits on success", func(t *testing.T) {
		database := openTestDB(t)

		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, insert, "a1")
			return err
		})
		if err != nil {
			t.Fatalf("WithTx() error = %v", err)
		}
		if got := count(t, database); got != 1 {
			t.Errorf("count = %d, want 1", got)
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		database := openTestDB(t)
		wantErr := errors.New("boom")

		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, insert, "a1"); err != nil {
				return err
			}
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Fatalf("WithTx() error = %v, want %v", err, wantErr)
		}
		if got := count(t, database); got != 0 {
			t.Errorf("count = %d, want 0", got)
		}
	})
}
