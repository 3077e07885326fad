package plantrepo

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-plant-catalog/cache"
	"github.com/goliatone/go-plant-catalog/catalog"
)

// Repository is the facade over the local plant store and the remote plant
// service. It exposes sorted observable queries and refresh orchestration;
// the custom sort order is fetched from the remote service at most once per
// Repository lifetime.
type Repository struct {
	store   catalog.PlantStore
	service catalog.PlantService

	orderCell *cache.Cell[[]string]
	sortExec  catalog.Executor
	logger    *slog.Logger
	policy    RefreshPolicy
}

// Option configures a Repository.
type Option func(*Repository)

// WithSortExecutor selects where the handoff pipeline variant runs its
// sorting work. Defaults to catalog.DefaultExecutor.
func WithSortExecutor(ex catalog.Executor) Option {
	return func(r *Repository) {
		if ex != nil {
			r.sortExec = ex
		}
	}
}

// WithLogger sets the logger for order-fetch and pipeline warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRefreshPolicy replaces the refresh decision policy. Defaults to
// AlwaysRefresh.
func WithRefreshPolicy(policy RefreshPolicy) Option {
	return func(r *Repository) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// New creates a Repository over the given collaborators.
func New(store catalog.PlantStore, service catalog.PlantService, opts ...Option) *Repository {
	r := &Repository{
		store:     store,
		service:   service,
		orderCell: cache.NewCell[[]string](),
		sortExec:  catalog.DefaultExecutor,
		logger:    slog.Default(),
		policy:    AlwaysRefresh{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// customOrder returns the memoized custom sort order, fetching it on first
// use. A failed fetch falls back to the empty order so plants stay visible
// in plain name order; the next lookup attempts the fetch again.
func (r *Repository) customOrder(ctx context.Context) []string {
	return r.orderCell.GetOrFetch(ctx, r.fetchOrder, nil)
}

func (r *Repository) fetchOrder(ctx context.Context) ([]string, error) {
	order, err := r.service.CustomSortOrder(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "custom sort order fetch failed, sorting by name until retried", "error", err)
		return nil, err
	}
	return order, nil
}
