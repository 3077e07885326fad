// Package plantrepo is the repository facade of the plant catalog: sorted
// observable queries over the local store, plus refresh orchestration
// against the remote plant service.
//
// # Overview
//
// A Repository combines three collaborators:
//
//   - a catalog.PlantStore holding the locally persisted catalog,
//   - a catalog.PlantService exposing the remote catalog and the curated
//     custom sort order,
//   - an optional catalog.Executor for offloaded sorting.
//
// The custom sort order is held in a success-memoizing cell (see the cache
// package): it is fetched from the remote service at most once per
// Repository lifetime, concurrent lookups share one fetch, and a failed
// fetch falls back to the empty order so plants remain visible sorted by
// name. The next lookup after a failure retries the fetch.
//
// # Sorted Pipelines
//
// Three observable queries decorate the store's change streams with the
// custom sort:
//
//	ObserveAllSorted        order resolved once per subscription
//	ObserveZoneSorted       order resolved per emission, sorted inline
//	ObserveZoneSortedLatest order resolved per emission, sorted on the
//	                        executor; superseded results are dropped
//
// StreamZoneSorted wraps ObserveZoneSorted as an iter.Seq2 for pull-based
// consumption. All pipelines conflate deliveries: a slow consumer sees the
// latest result, never a backlog.
//
// # Refresh
//
// TryRefreshAll and TryRefreshZone fetch from the remote service and write
// through to the store; RefreshZones runs several zone refreshes
// concurrently. Refreshes never feed the pipelines directly: a successful
// write triggers the store's change notification, which the pipelines
// observe like any other store mutation. Fetch and store failures are
// returned to the caller; only sort-order failures are downgraded to the
// name-order fallback.
//
// The RefreshPolicy hook decides whether a refresh round runs at all. The
// default AlwaysRefresh policy refreshes unconditionally; replace it with
// WithRefreshPolicy to consult staleness or rate limits.
//
// # Construction
//
// Build a Repository with New, or wire one through pkg/di. The Default
// singleton accessor exists for callers without an injection seam and
// guarantees at-most-once construction under concurrent first calls.
package plantrepo
