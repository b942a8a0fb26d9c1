// Package access models who is looking at the estimate and what they may
// change. A Gate is an immutable value; every transition returns a new one.
package access

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/estimo/internal/domain"
)

var (
	ErrNotAuthenticated = errors.New("admin login required")
	ErrInvalidPasscode  = errors.New("invalid passcode")
	ErrPasscodeRequired = errors.New("passcode required")
	ErrNotAdmin         = errors.New("operation requires the admin view")
)

// State is the underlying gate state, independent of preview.
type State string

const (
	StateUnauthenticatedAdmin State = "unauthenticated_admin"
	StateAuthenticatedAdmin   State = "authenticated_admin"
	StateClient               State = "client"
)

// Operation is a mutation or privileged export checked by Authorize.
type Operation string

const (
	OpEditEffort     Operation = "edit_effort"
	OpEditPricing    Operation = "edit_pricing"
	OpSaveDraft      Operation = "save_draft"
	OpResetDraft     Operation = "reset_draft"
	OpExportPricing  Operation = "export_pricing"
	OpExportSnapshot Operation = "export_snapshot"
)

type Gate struct {
	role          domain.Role
	authenticated bool
	previewing    bool
}

// NewGate starts unauthenticated in the given role.
func NewGate(role domain.Role) Gate {
	if role != domain.RoleAdmin {
		role = domain.RoleClient
	}
	return Gate{role: role}
}

func (g Gate) Role() domain.Role { return g.role }
func (g Gate) Authenticated() bool { return g.role == domain.RoleAdmin && g.authenticated }
func (g Gate) Previewing() bool { return g.previewing }

// State reports the underlying state. Preview does not change it.
func (g Gate) State() State {
	switch {
	case g.role != domain.RoleAdmin:
		return StateClient
	case g.authenticated:
		return StateAuthenticatedAdmin
	default:
		return StateUnauthenticatedAdmin
	}
}

// DisplayedRole is the role whose affordances are shown.
func (g Gate) DisplayedRole() domain.Role {
	if g.previewing {
		return domain.RoleClient
	}
	return g.role
}

// Login authenticates an admin. On failure the gate is returned unchanged
// together with the reason.
func (g Gate) Login(v PasscodeVerifier, passcode string) (Gate, error) {
	if g.role != domain.RoleAdmin {
		return g, ErrNotAdmin
	}
	if passcode == "" {
		return g, ErrPasscodeRequired
	}
	if v == nil || !v.Verify(passcode) {
		return g, ErrInvalidPasscode
	}
	g.authenticated = true
	return g, nil
}

func (g Gate) Logout() Gate {
	g.authenticated = false
	return g
}

// EnterPreview shows the client view while keeping admin state underneath.
func (g Gate) EnterPreview() (Gate, error) {
	if g.role != domain.RoleAdmin {
		return g, ErrNotAdmin
	}
	g.previewing = true
	return g, nil
}

func (g Gate) ExitPreview() Gate {
	g.previewing = false
	return g
}

// SwitchRole changes the underlying role. Authentication survives a round
// trip through the client view; preview does not.
func (g Gate) SwitchRole(role domain.Role) Gate {
	if role != domain.RoleAdmin {
		role = domain.RoleClient
	}
	g.role = role
	g.previewing = false
	return g
}

// CanMutate reports whether the underlying state is authenticated-admin.
func (g Gate) CanMutate() bool {
	return g.State() == StateAuthenticatedAdmin
}

// Authorize returns nil when op is allowed in the current state.
func (g Gate) Authorize(op Operation) error {
	if g.CanMutate() {
		return nil
	}
	if g.role != domain.RoleAdmin {
		return fmt.Errorf("%s: %w", op, ErrNotAdmin)
	}
	return fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
}

// Visibility lists which affordances a presentation layer should show.
type Visibility struct {
	EditableEffort  bool `json:"editableEffort"`
	RateControls    bool `json:"rateControls"`
	RateScenarios   bool `json:"rateScenarios"`
	PricingExport   bool `json:"pricingExport"`
	DraftControls   bool `json:"draftControls"`
	ShareLinks      bool `json:"shareLinks"`
	LoginControl    bool `json:"loginControl"`
	LogoutControl   bool `json:"logoutControl"`
	PreviewControl  bool `json:"previewControl"`
	ExitPreview     bool `json:"exitPreview"`
	AdminSection    bool `json:"adminSection"`
	HoursExport     bool `json:"hoursExport"`
	EffortBreakdown bool `json:"effortBreakdown"`
}

// Visibility derives the affordances from the displayed role, so a preview
// hides everything a client would not see.
func (g Gate) Visibility() Visibility {
	shown := g.DisplayedRole() == domain.RoleAdmin
	authed := shown && g.Authenticated()
	inAdmin := g.role == domain.RoleAdmin
	return Visibility{
		EditableEffort:  authed,
		RateControls:    shown,
		RateScenarios:   authed,
		PricingExport:   authed,
		DraftControls:   authed,
		ShareLinks:      shown,
		LoginControl:    shown && !g.Authenticated(),
		LogoutControl:   authed,
		PreviewControl:  shown,
		ExitPreview:     inAdmin && g.previewing,
		AdminSection:    shown,
		HoursExport:     true,
		EffortBreakdown: true,
	}
}
