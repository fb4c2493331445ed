package storage

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	// Migration 1: Initial schema
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		kind       TEXT NOT NULL DEFAULT '',
		area_m2    REAL NOT NULL DEFAULT 0.0,
		state      TEXT NOT NULL DEFAULT '',
		city       TEXT NOT NULL DEFAULT '',
		budget_brl REAL NOT NULL DEFAULT 0.0,
		start_date DATETIME,
		end_date   DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL,
		date            DATETIME NOT NULL,
		category        TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		amount_brl      REAL NOT NULL DEFAULT 0.0,
		payment_method  TEXT NOT NULL DEFAULT '',
		supplier        TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		professional_id TEXT NOT NULL DEFAULT '',
		created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_project ON expenses(project_id);
	CREATE INDEX IF NOT EXISTS idx_expenses_professional ON expenses(professional_id);

	CREATE TABLE IF NOT EXISTS professionals (
		id                 TEXT PRIMARY KEY,
		project_id         TEXT NOT NULL,
		name               TEXT NOT NULL,
		role               TEXT NOT NULL DEFAULT '',
		expected_total_brl REAL NOT NULL DEFAULT 0.0,
		created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_professionals_project ON professionals(project_id);

	CREATE TABLE IF NOT EXISTS budget_alerts (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL UNIQUE,
		active     INTEGER NOT NULL DEFAULT 1,
		thresholds TEXT NOT NULL DEFAULT '[]',
		fired      TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS deadline_alerts (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		title      TEXT NOT NULL,
		due_date   DATETIME NOT NULL,
		lead_days  INTEGER NOT NULL DEFAULT 0,
		fired      INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_deadline_alerts_project ON deadline_alerts(project_id);

	CREATE TABLE IF NOT EXISTS payment_alerts (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL,
		title           TEXT NOT NULL,
		category        TEXT NOT NULL CHECK(category IN ('professional', 'material', 'other')),
		amount_brl      REAL NOT NULL DEFAULT 0.0,
		professional_id TEXT NOT NULL DEFAULT '',
		start_date      DATETIME NOT NULL,
		recurrence      TEXT NOT NULL CHECK(recurrence IN ('once', 'weekly', 'monthly')),
		weekday         INTEGER NOT NULL DEFAULT 0,
		lead_days       INTEGER NOT NULL DEFAULT 0,
		next_date       DATETIME NOT NULL,
		fired           INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_payment_alerts_project ON payment_alerts(project_id);

	CREATE TABLE IF NOT EXISTS notifications (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL,
		kind            TEXT NOT NULL CHECK(kind IN ('budget', 'deadline', 'payment')),
		title           TEXT NOT NULL,
		message         TEXT NOT NULL,
		read            INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		source_alert_id TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_project ON notifications(project_id);
	CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);

	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
}

// runMigrations applies pending schema migrations.
func runMigrations(db *sql.DB) error {
	// Ensure migration tracking table exists
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("check migration version: %w", err)
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("run migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}

	return nil
}
