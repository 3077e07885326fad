// Package catalog defines the plant-catalog domain: the Plant record, the
// GrowZone filter, the contracts for the local store and the remote service,
// and the custom sort transform that ranks plants by a curated order list.
//
// # Overview
//
// The package is deliberately free of infrastructure. It exports:
//
//   - Plant, GrowZone: immutable domain values
//   - PlantStore: the locally persisted, observable plant collection
//   - PlantService: the remote catalog endpoint (plants + curated order)
//   - SortByCustomOrder / SortByCustomOrderOn: the ranking transform
//   - Executor: where offloaded sorting work runs
//
// Concrete implementations live elsewhere: the bun-backed store in
// internal/storeinfra, the HTTP client in internal/netinfra, and the
// repository facade that composes them in plantrepo.
//
// # Custom Sort Semantics
//
// SortByCustomOrder ranks plants by the position of their ID in a curated
// order list. Plants not named by the list sort after all ranked plants,
// alphabetically by name. The transform is pure: stable, side-effect free,
// and safe to run on any goroutine. For example:
//
//	plants := []catalog.Plant{{ID: "1", Name: "Apple"}, {ID: "2", Name: "Banana"}, {ID: "3", Name: "Cherry"}}
//	sorted := catalog.SortByCustomOrder(plants, []string{"3", "1"})
//	// sorted: Cherry, Apple, Banana
//
// An empty order list degrades to a plain name sort, which doubles as the
// fallback when the curated order cannot be fetched.
//
// # Observable Queries
//
// PlantStore exposes each query in three shapes: a one-shot call (All), a
// hot channel stream (ObserveAll) and a pull iterator (StreamAll). The
// streaming shapes emit the current result on subscription and a fresh
// result after every successful store mutation. Deliveries are conflated:
// a consumer that falls behind sees only the latest result, and a slow
// consumer never blocks the store's writers.
package catalog
