package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/estimo/internal/access"
	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/draft"
	"github.com/alexanderramin/estimo/internal/estimate"
	"github.com/alexanderramin/estimo/internal/export"
	"github.com/alexanderramin/estimo/internal/filter"
	"github.com/alexanderramin/estimo/internal/link"
	"github.com/alexanderramin/estimo/internal/repository"
	"github.com/alexanderramin/estimo/internal/source"
	"github.com/alexanderramin/estimo/internal/state"
	"github.com/google/uuid"
)

// ErrNoDraftStore is returned by draft operations when no local store is wired.
var ErrNoDraftStore = errors.New("no local draft store configured")

// SessionConfig is what a session knows before the first load.
type SessionConfig struct {
	Role       domain.Role
	Pricing    domain.PricingConfig
	DraftToken string
	BaseURL    string
	Verifier   access.PasscodeVerifier
}

// EstimateSession owns the mutable container around state.State. It runs
// the resolver, performs persistence side effects and reports use cases.
type EstimateSession struct {
	resolver *source.Resolver
	drafts   repository.DraftRepo
	verifier access.PasscodeVerifier
	baseURL  string
	observer UseCaseObserver

	mu    sync.Mutex
	token string
	st    state.State
}

func NewEstimateSession(
	resolver *source.Resolver,
	drafts repository.DraftRepo,
	cfg SessionConfig,
	observers ...UseCaseObserver,
) *EstimateSession {
	pricing := cfg.Pricing
	if pricing.Rate <= 0 {
		pricing = domain.DefaultPricing()
	}
	return &EstimateSession{
		resolver: resolver,
		drafts:   drafts,
		verifier: cfg.Verifier,
		baseURL:  cfg.BaseURL,
		observer: useCaseObserverOrNoop(observers),
		token:    cfg.DraftToken,
		st:       state.New(cfg.Role, pricing),
	}
}

// State returns a copy of the current state.
func (s *EstimateSession) State() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.st
	st.Items = st.Items.Clone()
	return st
}

func (s *EstimateSession) apply(ev state.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := state.Reduce(s.st, ev)
	if err != nil {
		return err
	}
	s.st = next
	return nil
}

func (s *EstimateSession) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// Load resolves the active dataset. A failed fetch leaves the session in
// the failed state, from which Retry can recover.
func (s *EstimateSession) Load(ctx context.Context) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "load-estimate", startedAt, fields, err) }()

	s.mu.Lock()
	s.st, _ = state.Reduce(s.st, state.LoadStarted{})
	req := source.Request{DraftToken: s.token, Role: s.st.Gate.Role()}
	s.mu.Unlock()

	res, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		_ = s.apply(state.LoadFailed{Err: err})
		return fmt.Errorf("loading estimate: %w", err)
	}
	fields["provenance"] = string(res.Provenance)
	fields["items"] = len(res.Items)
	return s.apply(state.Loaded{Items: res.Items, Provenance: res.Provenance})
}

// Retry re-runs resolution after a failure.
func (s *EstimateSession) Retry(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *EstimateSession) Login(ctx context.Context, passcode string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "login", startedAt, nil, err) }()
	return s.apply(state.Login{Verifier: s.verifier, Passcode: passcode})
}

func (s *EstimateSession) Logout() {
	_ = s.apply(state.Logout{})
}

func (s *EstimateSession) EnterPreview() error {
	return s.apply(state.EnterPreview{})
}

func (s *EstimateSession) ExitPreview() {
	_ = s.apply(state.ExitPreview{})
}

// SwitchRole changes the underlying role. Becoming admin re-evaluates the
// source so a saved local draft can take over, unless there are unsaved
// edits in memory.
func (s *EstimateSession) SwitchRole(ctx context.Context, role domain.Role) error {
	s.mu.Lock()
	wasAdmin := s.st.Gate.Role() == domain.RoleAdmin
	s.st, _ = state.Reduce(s.st, state.SwitchRole{Role: role})
	reload := !wasAdmin && s.st.Gate.Role() == domain.RoleAdmin && !s.st.Dirty
	s.mu.Unlock()

	if reload {
		return s.Load(ctx)
	}
	return nil
}

func (s *EstimateSession) SetEffort(id string, field domain.EffortField, raw string) error {
	return s.apply(state.SetEffort{ID: id, Field: field, Raw: raw})
}

func (s *EstimateSession) SetRate(rate float64) error {
	return s.apply(state.SetRate{Rate: rate})
}

func (s *EstimateSession) SetBuffer(percent float64) error {
	return s.apply(state.SetBuffer{Percent: percent})
}

// ReplaceItems swaps in an edited dataset, for example one read back from
// a snapshot file.
func (s *EstimateSession) ReplaceItems(items domain.Dataset) error {
	return s.apply(state.ReplaceItems{Items: items})
}

// SaveDraft writes the active dataset to the device slot, replacing any
// earlier draft.
func (s *EstimateSession) SaveDraft(ctx context.Context) (saved *domain.LocalDraft, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "save-draft", startedAt, fields, err) }()

	st := s.State()
	if err = st.Gate.Authorize(access.OpSaveDraft); err != nil {
		return nil, err
	}
	if !st.Ready() {
		return nil, state.ErrNotReady
	}
	if s.drafts == nil {
		return nil, ErrNoDraftStore
	}

	saved = &domain.LocalDraft{
		Revision: uuid.New().String(),
		Items:    st.Items,
		SavedAt:  time.Now().UTC(),
	}
	if err = s.drafts.Save(ctx, saved); err != nil {
		return nil, err
	}
	fields["revision"] = saved.Revision
	fields["items"] = len(saved.Items)
	if err = s.apply(state.DraftSaved{}); err != nil {
		return nil, err
	}
	return saved, nil
}

// LocalDraft returns the saved device draft.
func (s *EstimateSession) LocalDraft(ctx context.Context) (*domain.LocalDraft, error) {
	if s.drafts == nil {
		return nil, ErrNoDraftStore
	}
	return s.drafts.Get(ctx)
}

// Reset clears the device draft, drops any link draft and reloads the
// published dataset. In-memory edits are discarded.
func (s *EstimateSession) Reset(ctx context.Context) (err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "reset-draft", startedAt, nil, err) }()

	if err = s.State().Gate.Authorize(access.OpResetDraft); err != nil {
		return err
	}
	if s.drafts != nil {
		if err = s.drafts.Delete(ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.token = ""
	s.st, _ = state.Reduce(s.st, state.LoadStarted{})
	s.mu.Unlock()

	items, err := s.resolver.Published(ctx)
	if err != nil {
		_ = s.apply(state.LoadFailed{Err: err})
		return fmt.Errorf("reloading published estimate: %w", err)
	}
	return s.apply(state.Loaded{Items: items, Provenance: domain.ProvenancePublished})
}

// Totals derives the aggregates from the active dataset. While loading or
// after a failure it reports zeros.
func (s *EstimateSession) Totals() estimate.Totals {
	st := s.State()
	return estimate.ComputeTotals(st.Items, st.Pricing)
}

// Visible returns the items matching c, in dataset order.
func (s *EstimateSession) Visible(c filter.Criteria) domain.Dataset {
	return filter.Apply(s.State().Items, c)
}

func (s *EstimateSession) Visibility() access.Visibility {
	return s.State().Gate.Visibility()
}

// RateScenarios compares the current totals at each preset rate.
func (s *EstimateSession) RateScenarios() ([]estimate.Scenario, error) {
	st := s.State()
	if !st.Gate.Visibility().RateScenarios {
		return nil, access.ErrNotAuthenticated
	}
	t := estimate.ComputeTotals(st.Items, st.Pricing)
	return estimate.RateScenarios(t, domain.RatePresets, st.Pricing.Rate), nil
}

func (s *EstimateSession) HoursCSV() (string, error) {
	st := s.State()
	if !st.Ready() {
		return "", state.ErrNotReady
	}
	t := estimate.ComputeTotals(st.Items, st.Pricing)
	return export.SerializeRows(export.HoursRows(st.Items, t, st.Pricing)), nil
}

func (s *EstimateSession) PricingCSV() (string, error) {
	st := s.State()
	if err := st.Gate.Authorize(access.OpExportPricing); err != nil {
		return "", err
	}
	if !st.Ready() {
		return "", state.ErrNotReady
	}
	t := estimate.ComputeTotals(st.Items, st.Pricing)
	return export.SerializeRows(export.PricingRows(st.Items, t, st.Pricing)), nil
}

// Snapshot renders the active dataset as a publishable document.
func (s *EstimateSession) Snapshot() ([]byte, error) {
	st := s.State()
	if err := st.Gate.Authorize(access.OpExportSnapshot); err != nil {
		return nil, err
	}
	if !st.Ready() {
		return nil, state.ErrNotReady
	}
	return export.Snapshot(st.Items)
}

// PublishedLink is a client link to the canonical dataset with the current
// pricing.
func (s *EstimateSession) PublishedLink() (string, error) {
	st := s.State()
	if st.Gate.Role() != domain.RoleAdmin {
		return "", access.ErrNotAdmin
	}
	return link.Build(s.baseURL, domain.RoleClient, st.Pricing, "")
}

// DraftLink embeds the active dataset in a client link.
func (s *EstimateSession) DraftLink() (string, error) {
	st := s.State()
	if st.Gate.Role() != domain.RoleAdmin {
		return "", access.ErrNotAdmin
	}
	if !st.Ready() {
		return "", state.ErrNotReady
	}
	token, err := draft.Encode(draft.State{Items: st.Items})
	if err != nil {
		return "", err
	}
	return link.Build(s.baseURL, domain.RoleClient, st.Pricing, token)
}
