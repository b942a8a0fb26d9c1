package source

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/draft"
	"github.com/alexanderramin/estimo/internal/repository"
)

// DraftOrigin names where a rejected draft came from.
type DraftOrigin string

const (
	OriginLink  DraftOrigin = "link"
	OriginLocal DraftOrigin = "local"
)

// Observer receives resolution outcomes. Implementations must be safe for
// concurrent use.
type Observer interface {
	Resolved(p domain.Provenance)
	DraftRejected(origin DraftOrigin)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) Resolved(domain.Provenance) {}
func (NoopObserver) DraftRejected(DraftOrigin) {}

// Request describes what the caller has available when loading.
type Request struct {
	DraftToken string
	Role       domain.Role
}

// Resolution is the dataset that became active and where it came from.
type Resolution struct {
	Items      domain.Dataset
	Provenance domain.Provenance
}

// Resolver applies the load precedence: link draft, then local draft for
// admins, then the published dataset.
type Resolver struct {
	codec     *draft.Codec
	published PublishedSource
	drafts    repository.DraftRepo
	observer  Observer
	logger    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithDrafts sets the local draft store. Without it local drafts are skipped.
func WithDrafts(repo repository.DraftRepo) ResolverOption {
	return func(r *Resolver) { r.drafts = repo }
}

// WithObserver sets the resolution observer.
func WithObserver(obs Observer) ResolverOption {
	return func(r *Resolver) {
		if obs != nil {
			r.observer = obs
		}
	}
}

// WithLogger sets the logger used for rejected drafts.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewResolver(published PublishedSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		published: published,
		observer:  NoopObserver{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.codec = draft.NewCodec(r.logger)
	return r
}

// Resolve picks the active dataset. Invalid or empty drafts fall through to
// the next source; only a failed published fetch is an error.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	if req.DraftToken != "" {
		if items, ok := r.fromLink(req.DraftToken); ok {
			return r.resolved(items, domain.ProvenanceLinkDraft), nil
		}
	}

	if req.Role == domain.RoleAdmin && r.drafts != nil {
		if items, ok := r.fromLocal(ctx); ok {
			return r.resolved(items, domain.ProvenanceLocalDraft), nil
		}
	}

	items, err := r.Published(ctx)
	if err != nil {
		return Resolution{}, err
	}
	return r.resolved(items, domain.ProvenancePublished), nil
}

// Published fetches the canonical dataset, bypassing every draft.
func (r *Resolver) Published(ctx context.Context) (domain.Dataset, error) {
	if r.published == nil {
		return nil, errors.New("no published source configured")
	}
	return r.published.Fetch(ctx)
}

func (r *Resolver) fromLink(token string) (domain.Dataset, bool) {
	state, ok := r.codec.Decode(token)
	if !ok {
		r.observer.DraftRejected(OriginLink)
		return nil, false
	}
	if err := state.Items.Validate(); err != nil {
		r.logger.Warn("ignoring link draft", "error", err)
		r.observer.DraftRejected(OriginLink)
		return nil, false
	}
	if len(state.Items) == 0 {
		return nil, false
	}
	return state.Items, true
}

func (r *Resolver) fromLocal(ctx context.Context) (domain.Dataset, bool) {
	saved, err := r.drafts.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("reading local draft", "error", err)
		r.observer.DraftRejected(OriginLocal)
		return nil, false
	}
	if err := saved.Items.Validate(); err != nil {
		r.logger.Warn("ignoring local draft", "revision", saved.Revision, "error", err)
		r.observer.DraftRejected(OriginLocal)
		return nil, false
	}
	if len(saved.Items) == 0 {
		return nil, false
	}
	return saved.Items, true
}

func (r *Resolver) resolved(items domain.Dataset, p domain.Provenance) Resolution {
	if items == nil {
		items = domain.Dataset{}
	}
	r.observer.Resolved(p)
	return Resolution{Items: items, Provenance: p}
}
