package plantrepo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-plant-catalog/catalog"
)

// RefreshPolicy decides whether a refresh round should run at all. The
// default always refreshes; a replacement could consult store staleness or
// a rate limit instead.
type RefreshPolicy interface {
	ShouldRefresh(ctx context.Context) bool
}

// AlwaysRefresh refreshes on every opportunity.
type AlwaysRefresh struct{}

// ShouldRefresh implements RefreshPolicy.
func (AlwaysRefresh) ShouldRefresh(context.Context) bool { return true }

// TryRefreshAll fetches the full remote catalog and writes it through to
// the local store. It never touches the sorted pipelines: the store's own
// change notification is what makes a successful refresh visible to them.
// When the policy declines, the refresh is skipped and nil is returned.
func (r *Repository) TryRefreshAll(ctx context.Context) error {
	if !r.policy.ShouldRefresh(ctx) {
		return nil
	}

	plants, err := r.service.AllPlants(ctx)
	if err != nil {
		return fmt.Errorf("plantrepo: fetch plants: %w", err)
	}
	if err := r.store.UpsertAll(ctx, plants); err != nil {
		return fmt.Errorf("plantrepo: store plants: %w", err)
	}
	return nil
}

// TryRefreshZone is TryRefreshAll scoped to one zone's remote fetch.
func (r *Repository) TryRefreshZone(ctx context.Context, zone catalog.GrowZone) error {
	if !r.policy.ShouldRefresh(ctx) {
		return nil
	}

	plants, err := r.service.PlantsByZone(ctx, zone)
	if err != nil {
		return fmt.Errorf("plantrepo: fetch plants for zone %d: %w", zone.Number, err)
	}
	if err := r.store.UpsertAll(ctx, plants); err != nil {
		return fmt.Errorf("plantrepo: store plants for zone %d: %w", zone.Number, err)
	}
	return nil
}

// RefreshZones refreshes several zones concurrently and returns the first
// failure, cancelling the remaining fetches.
func (r *Repository) RefreshZones(ctx context.Context, zones ...catalog.GrowZone) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, zone := range zones {
		g.Go(func() error {
			return r.TryRefreshZone(ctx, zone)
		})
	}
	return g.Wait()
}
