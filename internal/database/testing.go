package database

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// NewTestDB opens a private in-memory SQLite database with the full schema
// applied. Each call returns an isolated database; the connection is closed
// when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite3")

	// A distinct name per test keeps in-memory databases isolated while the
	// shared cache keeps them alive across pooled connections.
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
