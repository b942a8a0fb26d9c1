package source

import "errors"

var (
	// ErrUnavailable indicates the published dataset could not be fetched.
	// The condition is retryable.
	ErrUnavailable = errors.New("published dataset unavailable")

	// ErrBadDocument indicates the published document could not be parsed
	// or failed validation.
	ErrBadDocument = errors.New("invalid published document")

	// ErrTimeout indicates the fetch exceeded its deadline.
	ErrTimeout = errors.New("published dataset fetch timed out")
)
