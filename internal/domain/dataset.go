package domain

import (
	"errors"
	"fmt"
	"time"
)

// Dataset is an ordered list of line items. Order matters for display only.
type Dataset []LineItem

// Clone returns an independent copy so that callers can mutate freely.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

// IndexOf returns the position of the item with the given id, or -1.
func (d Dataset) IndexOf(id string) int {
	for i := range d {
		if d[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate returns every problem found, joined. A nil result means the
// dataset may become active.
func (d Dataset) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(d))
	for i, item := range d {
		if err := item.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("items[%d]: %w", i, err))
		}
		if item.ID == "" {
			continue
		}
		if seen[item.ID] {
			errs = append(errs, fmt.Errorf("items[%d]: %w: %q", i, ErrDuplicateID, item.ID))
		}
		seen[item.ID] = true
	}
	return errors.Join(errs...)
}

// LocalDraft is the single per-device saved draft slot.
type LocalDraft struct {
	Revision string
	Items    Dataset
	SavedAt  time.Time
}
