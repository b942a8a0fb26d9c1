package repository

import (
	"context"

	"github.com/alexanderramin/estimo/internal/domain"
)

// DraftRepo persists the single per-device draft slot. Saving overwrites
// whatever was there; there is no history.
type DraftRepo interface {
	Get(ctx context.Context) (*domain.LocalDraft, error)
	Save(ctx context.Context, d *domain.LocalDraft) error
	Delete(ctx context.Context) error
}
