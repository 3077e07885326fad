package plantrepo

import (
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-plant-catalog/catalog"
)

var (
	defaultRepo atomic.Pointer[Repository]
	defaultMu   sync.Mutex
)

// Default returns the process-wide Repository, constructing it on the
// first call. The fast path is a lock-free read; construction takes the
// lock and re-checks, so at most one instance is ever built and every
// caller observes it fully constructed. Arguments passed after the first
// call are ignored.
//
// Prefer constructing a Repository with New and passing it explicitly
// (see pkg/di); Default exists for callers without an injection seam.
func Default(store catalog.PlantStore, service catalog.PlantService, opts ...Option) *Repository {
	if r := defaultRepo.Load(); r != nil {
		return r
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if r := defaultRepo.Load(); r != nil {
		return r
	}
	r := New(store, service, opts...)
	defaultRepo.Store(r)
	return r
}
