package domain

import "errors"

var (
	// ErrUnknownPriority indicates a priority outside {P0, P1, P2}.
	ErrUnknownPriority = errors.New("unknown priority")

	// ErrNegativeHours indicates an effort field below zero.
	ErrNegativeHours = errors.New("effort hours must not be negative")

	ErrMissingID   = errors.New("line item id is required")
	ErrDuplicateID = errors.New("duplicate line item id")

	// ErrItemNotFound indicates no line item carries the requested id.
	ErrItemNotFound = errors.New("line item not found")

	ErrUnknownEffortField = errors.New("unknown effort field")

	// ErrInvalidRate indicates a non-positive hourly rate.
	ErrInvalidRate = errors.New("hourly rate must be positive")
)
