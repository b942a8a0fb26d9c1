package domain

import (
	"errors"
	"fmt"
)

// LineItem is one billable interface of the estimate.
type LineItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"desc"`
	Dependencies string   `json:"deps"`
	Priority     Priority `json:"priority"`

	FE   Hours `json:"fe"`
	BE   Hours `json:"be"`
	Intg Hours `json:"intg"`
	QA   Hours `json:"qa"`
}

// Total is derived on every call and never stored.
func (li LineItem) Total() Hours {
	return li.FE + li.BE + li.Intg + li.QA
}

// Effort returns the value of a single hour column.
func (li LineItem) Effort(f EffortField) (Hours, error) {
	switch f {
	case EffortFE:
		return li.FE, nil
	case EffortBE:
		return li.BE, nil
	case EffortIntg:
		return li.Intg, nil
	case EffortQA:
		return li.QA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEffortField, f)
	}
}

// SetEffort replaces a single hour column.
func (li *LineItem) SetEffort(f EffortField, h Hours) error {
	if h < 0 {
		return fmt.Errorf("%s.%s: %w", li.ID, f, ErrNegativeHours)
	}
	switch f {
	case EffortFE:
		li.FE = h
	case EffortBE:
		li.BE = h
	case EffortIntg:
		li.Intg = h
	case EffortQA:
		li.QA = h
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEffortField, f)
	}
	return nil
}

// Validate checks the invariants enforced when items enter the system.
func (li LineItem) Validate() error {
	var errs []error
	if li.ID == "" {
		errs = append(errs, ErrMissingID)
	}
	if !li.Priority.Valid() {
		errs = append(errs, fmt.Errorf("item %q: %w: %q", li.ID, ErrUnknownPriority, li.Priority))
	}
	for _, f := range EffortFields() {
		h, _ := li.Effort(f)
		if h < 0 {
			errs = append(errs, fmt.Errorf("item %q field %s: %w", li.ID, f, ErrNegativeHours))
		}
	}
	return errors.Join(errs...)
}
