package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesDraftTable(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='local_draft'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "local_draft", name)
}

func TestMigrate_SingleSlotConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO local_draft (slot, revision, items_json, saved_at) VALUES ('other', 'r', '[]', 'now')`)
	assert.Error(t, err, "only the 'draft' slot may exist")
}

func TestOpenDB_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "estimo.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenDB_InMemoryJournalMode(t *testing.T) {
	// In-memory SQLite reports "memory"; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}
