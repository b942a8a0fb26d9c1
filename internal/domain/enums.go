package domain

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
)

// Priorities returns the fixed priority buckets in display order.
func Priorities() []Priority {
	return []Priority{PriorityP0, PriorityP1, PriorityP2}
}

// Valid reports whether p is one of the known buckets.
func (p Priority) Valid() bool {
	switch p {
	case PriorityP0, PriorityP1, PriorityP2:
		return true
	default:
		return false
	}
}

// Label returns the human description shown next to a priority pill.
func (p Priority) Label() string {
	switch p {
	case PriorityP0:
		return "Blocking (MVP)"
	case PriorityP1:
		return "Important"
	case PriorityP2:
		return "Post-MVP"
	default:
		return string(p)
	}
}

// ParsePriority parses user input case-insensitively. Data loaded from a
// document is validated with Valid instead, which is exact.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
	return p, nil
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// ParseRole maps a view parameter to a role. Anything other than "admin"
// is the client view.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleClient
}

// Provenance records where the active dataset came from.
type Provenance string

const (
	ProvenancePublished  Provenance = "published"
	ProvenanceLinkDraft  Provenance = "link_draft"
	ProvenanceLocalDraft Provenance = "local_draft"
)

// EffortField names one of the four hour columns of a line item.
type EffortField string

const (
	EffortFE   EffortField = "fe"
	EffortBE   EffortField = "be"
	EffortIntg EffortField = "intg"
	EffortQA   EffortField = "qa"
)

// EffortFields returns the hour columns in export order.
func EffortFields() []EffortField {
	return []EffortField{EffortFE, EffortBE, EffortIntg, EffortQA}
}

func ParseEffortField(s string) (EffortField, error) {
	f := EffortField(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case EffortFE, EffortBE, EffortIntg, EffortQA:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEffortField, s)
	}
}
