package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// One row at most: the device keeps a single draft slot.
	`CREATE TABLE IF NOT EXISTS local_draft (
		slot       TEXT PRIMARY KEY CHECK(slot = 'draft'),
		revision   TEXT NOT NULL,
		items_json TEXT NOT NULL,
		saved_at   TEXT NOT NULL
	)`,
}
