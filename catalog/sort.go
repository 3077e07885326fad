package catalog

import (
	"cmp"
	"context"
	"slices"
)

// SortByCustomOrder returns a new slice ranked by the position of each
// plant's ID in order. Plants whose ID does not appear in order sort after
// every ranked plant; ties (including all unranked plants) break
// alphabetically by name. The sort is stable and the input slice is never
// mutated. Duplicate IDs in order rank at their first occurrence.
//
// An empty order is valid and yields a plain name sort, which is what the
// repository falls back to when the remote order cannot be fetched.
func SortByCustomOrder(plants []Plant, order []string) []Plant {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, seen := rank[id]; !seen {
			rank[id] = i
		}
	}

	// Unranked plants share a position one past the last ranked slot.
	unranked := len(order)

	sorted := slices.Clone(plants)
	slices.SortStableFunc(sorted, func(a, b Plant) int {
		ra, ok := rank[a.ID]
		if !ok {
			ra = unranked
		}
		rb, ok := rank[b.ID]
		if !ok {
			rb = unranked
		}
		if c := cmp.Compare(ra, rb); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return sorted
}

// SortByCustomOrderOn runs SortByCustomOrder on ex and blocks until the
// result is ready or ctx is done. When ctx wins the race the sort still
// completes on the executor; its result is simply discarded.
func SortByCustomOrderOn(ctx context.Context, ex Executor, plants []Plant, order []string) ([]Plant, error) {
	if ex == nil {
		ex = DefaultExecutor
	}

	done := make(chan []Plant, 1)
	ex.Execute(func() {
		done <- SortByCustomOrder(plants, order)
	})

	select {
	case sorted := <-done:
		return sorted, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
