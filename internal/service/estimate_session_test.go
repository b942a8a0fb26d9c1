package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/alexanderramin/estimo/internal/access"
	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/draft"
	"github.com/alexanderramin/estimo/internal/filter"
	"github.com/alexanderramin/estimo/internal/link"
	"github.com/alexanderramin/estimo/internal/repository"
	"github.com/alexanderramin/estimo/internal/source"
	"github.com/alexanderramin/estimo/internal/state"
	"github.com/alexanderramin/estimo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPasscode = "letmein"

type fakePublished struct {
	items domain.Dataset
	err   error
	calls int
}

func (f *fakePublished) Fetch(context.Context) (domain.Dataset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items.Clone(), nil
}

type recordingUseCases struct {
	events []UseCaseEvent
}

func (r *recordingUseCases) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func (r *recordingUseCases) names() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

type sessionFixture struct {
	session   *EstimateSession
	published *fakePublished
	drafts    repository.DraftRepo
	observer  *recordingUseCases
}

func newSession(t *testing.T, cfg SessionConfig) sessionFixture {
	t.Helper()
	published := &fakePublished{items: testutil.SampleDataset()}
	drafts := repository.NewSQLiteDraftRepo(testutil.NewTestDB(t))
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	resolver := source.NewResolver(published, source.WithDrafts(drafts), source.WithLogger(logger))

	if cfg.Verifier == nil {
		cfg.Verifier = access.StaticPasscode(testPasscode)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://estimo.example/"
	}
	obs := &recordingUseCases{}
	return sessionFixture{
		session:   NewEstimateSession(resolver, drafts, cfg, obs),
		published: published,
		drafts:    drafts,
		observer:  obs,
	}
}

func adminSession(t *testing.T) sessionFixture {
	t.Helper()
	f := newSession(t, SessionConfig{Role: domain.RoleAdmin, Pricing: domain.DefaultPricing()})
	require.NoError(t, f.session.Load(context.Background()))
	require.NoError(t, f.session.Login(context.Background(), testPasscode))
	return f
}

func TestEstimateSession_LoadPublished(t *testing.T) {
	f := newSession(t, SessionConfig{Role: domain.RoleClient})
	assert.Equal(t, state.StatusLoading, f.session.State().Status)

	require.NoError(t, f.session.Load(context.Background()))
	st := f.session.State()
	assert.Equal(t, state.StatusReady, st.Status)
	assert.Equal(t, domain.ProvenancePublished, st.Provenance)
	assert.Equal(t, testutil.SampleDataset(), st.Items)
	assert.Equal(t, []string{"load-estimate"}, f.observer.names())
	assert.Equal(t, "published", f.observer.events[0].Fields["provenance"])
}

func TestEstimateSession_TotalsExample(t *testing.T) {
	f := newSession(t, SessionConfig{Role: domain.RoleClient, Pricing: domain.DefaultPricing()})
	f.published.items = domain.Dataset{{ID: "A1", Priority: domain.PriorityP0, FE: 8, BE: 6, Intg: 0, QA: 4}}
	require.NoError(t, f.session.Load(context.Background()))

	totals := f.session.Totals()
	assert.Equal(t, domain.Hours(18), totals.GrandTotal)
	assert.Equal(t, domain.Hours(22), totals.BufferedTotal)
	assert.Equal(t, 810.0, totals.Cost)
	assert.Equal(t, 990.0, totals.BufferedCost)
}

func TestEstimateSession_FetchFailureIsRetryable(t *testing.T) {
	f := newSession(t, SessionConfig{Role: domain.RoleClient})
	f.published.err = source.ErrUnavailable

	err := f.session.Load(context.Background())
	require.ErrorIs(t, err, source.ErrUnavailable)
	st := f.session.State()
	assert.Equal(t, state.StatusFailed, st.Status)
	assert.ErrorIs(t, st.Err, source.ErrUnavailable)
	assert.Zero(t, f.session.Totals().GrandTotal)

	_, err = f.session.HoursCSV()
	assert.ErrorIs(t, err, state.ErrNotReady)

	f.published.err = nil
	require.NoError(t, f.session.Retry(context.Background()))
	assert.Equal(t, state.StatusReady, f.session.State().Status)
	assert.Equal(t, 2, f.published.calls)
	assert.False(t, f.observer.events[0].Success)
}

func TestEstimateSession_LinkDraftBeatsLocalDraft(t *testing.T) {
	ctx := context.Background()
	f := adminSession(t)
	require.NoError(t, f.session.SetEffort("A1", domain.EffortFE, "1"))
	_, err := f.session.SaveDraft(ctx)
	require.NoError(t, err)

	linkItems := domain.Dataset{testutil.NewTestItem("Shared", testutil.WithID("S1"))}
	token, err := draft.Encode(draft.State{Items: linkItems})
	require.NoError(t, err)

	g := newSession(t, SessionConfig{Role: domain.RoleAdmin, DraftToken: token})
	g.session.drafts = f.drafts
	resolver := source.NewResolver(g.published, source.WithDrafts(f.drafts))
	g.session.resolver = resolver

	require.NoError(t, g.session.Load(ctx))
	st := g.session.State()
	assert.Equal(t, domain.ProvenanceLinkDraft, st.Provenance)
	assert.Equal(t, linkItems, st.Items)
}

func TestEstimateSession_MutationsRequireLogin(t *testing.T) {
	ctx := context.Background()
	f := newSession(t, SessionConfig{Role: domain.RoleAdmin})
	require.NoError(t, f.session.Load(ctx))
	before := f.session.State().Items

	assert.ErrorIs(t, f.session.SetEffort("A1", domain.EffortFE, "99"), access.ErrNotAuthenticated)
	assert.ErrorIs(t, f.session.SetRate(60), access.ErrNotAuthenticated)
	assert.ErrorIs(t, f.session.SetBuffer(50), access.ErrNotAuthenticated)
	_, err := f.session.SaveDraft(ctx)
	assert.ErrorIs(t, err, access.ErrNotAuthenticated)
	assert.ErrorIs(t, f.session.Reset(ctx), access.ErrNotAuthenticated)
	_, err = f.session.PricingCSV()
	assert.ErrorIs(t, err, access.ErrNotAuthenticated)
	_, err = f.session.Snapshot()
	assert.ErrorIs(t, err, access.ErrNotAuthenticated)
	_, err = f.session.RateScenarios()
	assert.ErrorIs(t, err, access.ErrNotAuthenticated)

	assert.Equal(t, before, f.session.State().Items)
	assert.Equal(t, 45.0, f.session.State().Pricing.Rate)
}

func TestEstimateSession_LoginRejectsWrongPasscode(t *testing.T) {
	f := newSession(t, SessionConfig{Role: domain.RoleAdmin})
	err := f.session.Login(context.Background(), "guess")
	assert.ErrorIs(t, err, access.ErrInvalidPasscode)
	assert.Equal(t, access.StateUnauthenticatedAdmin, f.session.State().Gate.State())

	f.session.Logout()
	require.NoError(t, f.session.Login(context.Background(), testPasscode))
	f.session.Logout()
	assert.False(t, f.session.State().Gate.Authenticated())
}

func TestEstimateSession_SaveDraftOverwrites(t *testing.T) {
	ctx := context.Background()
	f := adminSession(t)

	require.NoError(t, f.session.SetEffort("A1", domain.EffortFE, "10"))
	first, err := f.session.SaveDraft(ctx)
	require.NoError(t, err)
	assert.False(t, f.session.State().Dirty)

	require.NoError(t, f.session.SetEffort("A1", domain.EffortFE, "11"))
	assert.True(t, f.session.State().Dirty)
	second, err := f.session.SaveDraft(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.Revision, second.Revision)

	got, err := f.session.LocalDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Revision, got.Revision)
	assert.Equal(t, domain.Hours(11), got.Items[0].FE)
	assert.Contains(t, f.observer.names(), "save-draft")
}

func TestEstimateSession_ResetDiscardsEdits(t *testing.T) {
	ctx := context.Background()
	f := adminSession(t)
	require.NoError(t, f.session.SetEffort("A1", domain.EffortFE, "40"))
	_, err := f.session.SaveDraft(ctx)
	require.NoError(t, err)

	require.NoError(t, f.session.Reset(ctx))
	st := f.session.State()
	assert.Equal(t, domain.ProvenancePublished, st.Provenance)
	assert.Equal(t, testutil.SampleDataset(), st.Items)
	assert.True(t, st.Gate.Authenticated())

	_, err = f.drafts.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEstimateSession_ResetDropsLinkDraft(t *testing.T) {
	ctx := context.Background()
	token, err := draft.Encode(draft.State{Items: domain.Dataset{testutil.NewTestItem("Shared")}})
	require.NoError(t, err)

	f := newSession(t, SessionConfig{Role: domain.RoleAdmin, DraftToken: token})
	require.NoError(t, f.session.Load(ctx))
	require.NoError(t, f.session.Login(ctx, testPasscode))
	assert.Equal(t, domain.ProvenanceLinkDraft, f.session.State().Provenance)

	require.NoError(t, f.session.Reset(ctx))
	require.NoError(t, f.session.Load(ctx))
	assert.Equal(t, domain.ProvenancePublished, f.session.State().Provenance)
}

func TestEstimateSession_SwitchRoleIntoAdminPicksLocalDraft(t *testing.T) {
	ctx := context.Background()
	f := adminSession(t)
	require.NoError(t, f.session.SetEffort("C1", domain.EffortQA, "9"))
	_, err := f.session.SaveDraft(ctx)
	require.NoError(t, err)

	g := newSession(t, SessionConfig{Role: domain.RoleClient})
	g.session.resolver = source.NewResolver(g.published, source.WithDrafts(f.drafts))
	require.NoError(t, g.session.Load(ctx))
	assert.Equal(t, domain.ProvenancePublished, g.session.State().Provenance)

	require.NoError(t, g.session.SwitchRole(ctx, domain.RoleAdmin))
	st := g.session.State()
	assert.Equal(t, domain.ProvenanceLocalDraft, st.Provenance)
	assert.Equal(t, domain.Hours(9), st.Items[2].QA)
}

func TestEstimateSession_SwitchRoleKeepsUnsavedEdits(t *testing.T) {
	ctx := context.Background()
	f := adminSession(t)
	require.NoError(t, f.session.SetEffort("A1", domain.EffortBE, "33"))

	require.NoError(t, f.session.SwitchRole(ctx, domain.RoleClient))
	require.NoError(t, f.session.SwitchRole(ctx, domain.RoleAdmin))

	st := f.session.State()
	assert.Equal(t, domain.Hours(33), st.Items[0].BE)
	assert.Equal(t, 1, f.published.calls)
}

func TestEstimateSession_PreviewHidesAdminAffordances(t *testing.T) {
	f := adminSession(t)
	require.NoError(t, f.session.EnterPreview())

	vis := f.session.Visibility()
	assert.False(t, vis.RateControls)
	assert.False(t, vis.PricingExport)
	assert.True(t, vis.ExitPreview)
	_, err := f.session.RateScenarios()
	assert.Error(t, err)

	f.session.ExitPreview()
	scenarios, err := f.session.RateScenarios()
	require.NoError(t, err)
	require.Len(t, scenarios, 3)
	assert.True(t, scenarios[1].Selected)
}

func TestEstimateSession_Exports(t *testing.T) {
	f := adminSession(t)

	hours, err := f.session.HoursCSV()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hours, `"ID","Interface","Priority"`))
	assert.Contains(t, hours, `"Total + buffer 20%"`)

	pricing, err := f.session.PricingCSV()
	require.NoError(t, err)
	assert.Contains(t, pricing, `"— Summary —"`)

	snap, err := f.session.Snapshot()
	require.NoError(t, err)
	var doc struct {
		Items domain.Dataset `json:"items"`
	}
	require.NoError(t, json.Unmarshal(snap, &doc))
	assert.Equal(t, testutil.SampleDataset(), doc.Items)
}

func TestEstimateSession_Links(t *testing.T) {
	f := adminSession(t)
	require.NoError(t, f.session.SetRate(60))
	require.NoError(t, f.session.SetEffort("B1", domain.EffortFE, "12"))

	published, err := f.session.PublishedLink()
	require.NoError(t, err)
	u, err := url.Parse(published)
	require.NoError(t, err)
	assert.Equal(t, "client", u.Query().Get("view"))
	assert.Equal(t, "60", u.Query().Get("rate"))
	assert.Empty(t, u.Fragment)

	shared, err := f.session.DraftLink()
	require.NoError(t, err)
	parsed, err := link.Parse(shared)
	require.NoError(t, err)
	decoded, ok := draft.Decode(parsed.DraftToken)
	require.True(t, ok)
	assert.Equal(t, domain.Hours(12), decoded.Items[1].FE)

	client := newSession(t, SessionConfig{Role: domain.RoleClient})
	_, err = client.session.DraftLink()
	assert.ErrorIs(t, err, access.ErrNotAdmin)
}

func TestEstimateSession_Visible(t *testing.T) {
	f := newSession(t, SessionConfig{Role: domain.RoleClient})
	require.NoError(t, f.session.Load(context.Background()))

	got := f.session.Visible(filter.Criteria{Priority: domain.PriorityP1, Query: "login"})
	assert.Empty(t, got)

	got = f.session.Visible(filter.Criteria{Priority: filter.All, Query: "DASH"})
	require.Len(t, got, 1)
	assert.Equal(t, "B1", got[0].ID)
}

func TestEstimateSession_ReplaceItems(t *testing.T) {
	f := adminSession(t)
	items := domain.Dataset{testutil.NewTestItem("Imported", testutil.WithID("I1"))}
	require.NoError(t, f.session.ReplaceItems(items))
	assert.Equal(t, items, f.session.State().Items)
	assert.True(t, f.session.State().Dirty)
}

func TestEstimateSession_NoDraftStore(t *testing.T) {
	published := &fakePublished{items: testutil.SampleDataset()}
	s := NewEstimateSession(source.NewResolver(published), nil, SessionConfig{
		Role:     domain.RoleAdmin,
		Verifier: access.StaticPasscode(testPasscode),
	})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Login(context.Background(), testPasscode))

	_, err := s.SaveDraft(context.Background())
	assert.True(t, errors.Is(err, ErrNoDraftStore))
	require.NoError(t, s.Reset(context.Background()))
}
