package catalog

import "context"

// PlantService is the remote catalog endpoint. It supplies both plant
// records and the curated display order used to rank them locally.
// Calls may be slow or fail; callers decide how failures propagate.
type PlantService interface {
	// AllPlants fetches every plant known to the remote catalog.
	AllPlants(ctx context.Context) ([]Plant, error)

	// PlantsByZone fetches the plants for a single zone.
	PlantsByZone(ctx context.Context, zone GrowZone) ([]Plant, error)

	// CustomSortOrder fetches the curated list of plant IDs, most
	// prominent first. IDs missing from the list rank after all listed ones.
	CustomSortOrder(ctx context.Context) ([]string, error)
}
