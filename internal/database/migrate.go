package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// migration is one schema step. Statements are written with a __PK__ marker
// that is replaced with the driver's auto-increment primary key clause.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "base tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS customer (
				id __PK__,
				name VARCHAR(255) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS activity (
				id __PK__,
				name VARCHAR(255) NOT NULL,
				needs_ticket BOOLEAN NOT NULL DEFAULT FALSE,
				factor DOUBLE PRECISION NOT NULL DEFAULT 1
			)`,
			`CREATE TABLE IF NOT EXISTS ticket_system (
				id __PK__,
				type VARCHAR(32) NOT NULL DEFAULT 'jira',
				name VARCHAR(255) NOT NULL,
				username VARCHAR(255) NOT NULL DEFAULT '',
				secret VARCHAR(4096) NOT NULL DEFAULT '',
				url VARCHAR(2048)
			)`,
			`CREATE TABLE IF NOT EXISTS app_user (
				id __PK__,
				login VARCHAR(255) NOT NULL UNIQUE,
				pw VARCHAR(255) NOT NULL,
				display_name VARCHAR(255) NOT NULL DEFAULT '',
				valid_id INTEGER NOT NULL DEFAULT 1,
				create_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version: 2,
		name:    "projects and bookings",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS project (
				id __PK__,
				name VARCHAR(255) NOT NULL,
				customer_id INTEGER NOT NULL REFERENCES customer(id),
				ticket_system_id INTEGER REFERENCES ticket_system(id),
				external_ticket_url VARCHAR(2048),
				external_ticket_login VARCHAR(255),
				external_ticket_credentials VARCHAR(4096),
				budget_type VARCHAR(16) NOT NULL DEFAULT 'none',
				budget DECIMAL(12,2),
				hourly_rate DECIMAL(12,2)
			)`,
			`CREATE TABLE IF NOT EXISTS project_activity (
				id __PK__,
				project_id INTEGER NOT NULL REFERENCES project(id),
				activity_id INTEGER NOT NULL REFERENCES activity(id),
				UNIQUE (project_id, activity_id)
			)`,
			`CREATE TABLE IF NOT EXISTS time_booking (
				id __PK__,
				project_id INTEGER NOT NULL REFERENCES project(id),
				activity_id INTEGER REFERENCES activity(id),
				user_id INTEGER REFERENCES app_user(id),
				started_at TIMESTAMP NOT NULL,
				ended_at TIMESTAMP NOT NULL,
				ticket_number VARCHAR(255) NOT NULL,
				duration_minutes INTEGER NOT NULL,
				worklog_id VARCHAR(64)
			)`,
			// No exclusion constraint on the booking interval: overlap prevention
			// is an application-level check (see service.BookingService), so the
			// index only speeds up the read side.
			`CREATE INDEX IF NOT EXISTS idx_booking_user_project
				ON time_booking (user_id, project_id, started_at)`,
		},
	},
}

// Migrate applies all pending migrations, tracking progress in
// schema_migrations. It is safe to call on every startup.
func Migrate(db *sql.DB) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		for _, stmt := range m.stmts {
			if _, err := db.Exec(renderDDL(stmt)); err != nil {
				return applied, fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
			}
		}
		if _, err := db.Exec(ConvertPlaceholders(
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`), m.version, m.name); err != nil {
			return applied, fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		log.Printf("migrations: applied %d %s", m.version, m.name)
		applied++
	}
	return applied, nil
}

// renderDDL replaces the __PK__ marker with the driver's auto-increment
// primary key clause.
func renderDDL(stmt string) string {
	var pk string
	switch {
	case IsPostgreSQL():
		pk = "SERIAL PRIMARY KEY"
	case IsSQLite():
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	default:
		pk = "INTEGER PRIMARY KEY AUTO_INCREMENT"
	}
	return strings.ReplaceAll(stmt, "__PK__", pk)
}
