package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/estimo/internal/db"
	"github.com/alexanderramin/estimo/internal/domain"
)

const draftSlot = "draft"

// SQLiteDraftRepo implements DraftRepo using a SQLite database.
type SQLiteDraftRepo struct {
	db db.DBTX
}

// NewSQLiteDraftRepo creates a new SQLiteDraftRepo.
func NewSQLiteDraftRepo(conn db.DBTX) *SQLiteDraftRepo {
	return &SQLiteDraftRepo{db: conn}
}

func (r *SQLiteDraftRepo) Get(ctx context.Context) (*domain.LocalDraft, error) {
	query := `SELECT revision, items_json, saved_at FROM local_draft WHERE slot = ?`
	row := r.db.QueryRowContext(ctx, query, draftSlot)

	var revision, itemsJSON, savedAt string
	if err := row.Scan(&revision, &itemsJSON, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("local draft: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning local draft: %w", err)
	}

	var items domain.Dataset
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return nil, fmt.Errorf("decoding local draft items: %w", err)
	}
	return &domain.LocalDraft{
		Revision: revision,
		Items:    items,
		SavedAt:  parseTime(savedAt),
	}, nil
}

func (r *SQLiteDraftRepo) Save(ctx context.Context, d *domain.LocalDraft) error {
	items := d.Items
	if items == nil {
		items = domain.Dataset{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding local draft items: %w", err)
	}

	query := `INSERT OR REPLACE INTO local_draft (slot, revision, items_json, saved_at)
		VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, draftSlot, d.Revision, string(data), formatTime(d.SavedAt)); err != nil {
		return fmt.Errorf("saving local draft: %w", err)
	}
	return nil
}

// Delete removes the slot. Deleting an empty slot is not an error.
func (r *SQLiteDraftRepo) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM local_draft WHERE slot = ?`, draftSlot); err != nil {
		return fmt.Errorf("deleting local draft: %w", err)
	}
	return nil
}
