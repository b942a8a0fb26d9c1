// Package state holds the estimate view as a single immutable value and
// the pure transition function that advances it.
package state

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/estimo/internal/access"
	"github.com/alexanderramin/estimo/internal/domain"
)

// ErrNotReady is returned for dataset mutations while no dataset is active.
var ErrNotReady = errors.New("estimate is not loaded")

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is everything the presentation layer reads. Values are never
// mutated in place; Reduce returns a new State sharing nothing mutable
// with the old one.
type State struct {
	Items      domain.Dataset
	Provenance domain.Provenance
	Pricing    domain.PricingConfig
	Gate       access.Gate
	Status     Status
	Err        error

	// Dirty is set by edits and cleared by a load or a save.
	Dirty bool
}

// New returns the initial loading state for a role.
func New(role domain.Role, pricing domain.PricingConfig) State {
	return State{
		Pricing: pricing,
		Gate:    access.NewGate(role),
		Status:  StatusLoading,
	}
}

// Ready reports whether a dataset is active.
func (s State) Ready() bool {
	return s.Status == StatusReady
}

// Event is a single transition request.
type Event interface {
	event()
}

type (
	Login struct {
		Verifier access.PasscodeVerifier
		Passcode string
	}
	Logout       struct{}
	EnterPreview struct{}
	ExitPreview  struct{}
	SwitchRole   struct{ Role domain.Role }

	// SetEffort targets an item by id. Raw is coerced with ParseHours, so
	// blank or non-numeric input becomes zero.
	SetEffort struct {
		ID    string
		Field domain.EffortField
		Raw   string
	}
	SetRate   struct{ Rate float64 }
	SetBuffer struct{ Percent float64 }

	// ReplaceItems swaps the whole dataset for an edited one.
	ReplaceItems struct{ Items domain.Dataset }

	LoadStarted struct{}

	Loaded struct {
		Items      domain.Dataset
		Provenance domain.Provenance
	}

	LoadFailed struct{ Err error }
	DraftSaved struct{}
)

func (Login) event()        {}
func (Logout) event()       {}
func (EnterPreview) event() {}
func (ExitPreview) event()  {}
func (SwitchRole) event()   {}
func (SetEffort) event()    {}
func (SetRate) event()      {}
func (SetBuffer) event()    {}
func (ReplaceItems) event() {}
func (LoadStarted) event()  {}
func (Loaded) event()       {}
func (LoadFailed) event()   {}
func (DraftSaved) event()   {}

// Reduce applies ev to s. On error the returned State equals s.
func Reduce(s State, ev Event) (State, error) {
	switch ev := ev.(type) {
	case Login:
		g, err := s.Gate.Login(ev.Verifier, ev.Passcode)
		if err != nil {
			return s, err
		}
		s.Gate = g
	case Logout:
		s.Gate = s.Gate.Logout()
	case EnterPreview:
		g, err := s.Gate.EnterPreview()
		if err != nil {
			return s, err
		}
		s.Gate = g
	case ExitPreview:
		s.Gate = s.Gate.ExitPreview()
	case SwitchRole:
		s.Gate = s.Gate.SwitchRole(ev.Role)

	case SetEffort:
		return setEffort(s, ev)
	case SetRate:
		if err := s.Gate.Authorize(access.OpEditPricing); err != nil {
			return s, err
		}
		p, err := s.Pricing.WithRate(ev.Rate)
		if err != nil {
			return s, err
		}
		s.Pricing = p
	case SetBuffer:
		if err := s.Gate.Authorize(access.OpEditPricing); err != nil {
			return s, err
		}
		s.Pricing = s.Pricing.WithBuffer(ev.Percent)
	case ReplaceItems:
		if err := s.Gate.Authorize(access.OpEditEffort); err != nil {
			return s, err
		}
		if !s.Ready() {
			return s, ErrNotReady
		}
		if err := ev.Items.Validate(); err != nil {
			return s, err
		}
		s.Items = nonNil(ev.Items.Clone())
		s.Dirty = true

	case LoadStarted:
		s.Status = StatusLoading
		s.Err = nil
	case Loaded:
		s.Items = nonNil(ev.Items.Clone())
		s.Provenance = ev.Provenance
		s.Status = StatusReady
		s.Err = nil
		s.Dirty = false
	case LoadFailed:
		s.Items = nil
		s.Provenance = ""
		s.Status = StatusFailed
		s.Err = ev.Err
		s.Dirty = false
	case DraftSaved:
		if err := s.Gate.Authorize(access.OpSaveDraft); err != nil {
			return s, err
		}
		s.Dirty = false

	default:
		return s, fmt.Errorf("unknown event %T", ev)
	}
	return s, nil
}

func setEffort(s State, ev SetEffort) (State, error) {
	if err := s.Gate.Authorize(access.OpEditEffort); err != nil {
		return s, err
	}
	if !s.Ready() {
		return s, ErrNotReady
	}
	idx := s.Items.IndexOf(ev.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: %q", domain.ErrItemNotFound, ev.ID)
	}
	items := s.Items.Clone()
	if err := items[idx].SetEffort(ev.Field, domain.ParseHours(ev.Raw)); err != nil {
		return s, err
	}
	s.Items = items
	s.Dirty = true
	return s, nil
}

func nonNil(d domain.Dataset) domain.Dataset {
	if d == nil {
		return domain.Dataset{}
	}
	return d
}
