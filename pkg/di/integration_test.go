package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-plant-catalog/catalog"
	"github.com/goliatone/go-plant-catalog/pkg/testsupport"
)

const recvTimeout = 2 * time.Second

// catalogServer is a mutable fake of the remote plant catalog. It serves
// the same endpoints the HTTP client consumes and counts requests so
// tests can verify caching and memoization across the whole stack.
type catalogServer struct {
	mu         sync.Mutex
	plants     []catalog.Plant
	order      []string
	orderDown  bool
	plantCalls int
	orderCalls int
}

func newCatalogServer(plants []catalog.Plant, order []string) *catalogServer {
	return &catalogServer{
		plants: slices.Clone(plants),
		order:  slices.Clone(order),
	}
}

func (s *catalogServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/plants", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.plantCalls++

		plants := s.plants
		if q := r.URL.Query().Get("zone"); q != "" {
			zone, err := strconv.Atoi(q)
			if err != nil {
				http.Error(w, "bad zone", http.StatusBadRequest)
				return
			}
			filtered := make([]catalog.Plant, 0, len(plants))
			for _, p := range plants {
				if p.GrowZoneNumber == zone {
					filtered = append(filtered, p)
				}
			}
			plants = filtered
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(plants)
	})

	mux.HandleFunc("/custom-plant-sort-order", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.orderCalls++

		if s.orderDown {
			http.Error(w, "order service unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.order)
	})

	return mux
}

func (s *catalogServer) setPlants(plants []catalog.Plant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plants = slices.Clone(plants)
}

func (s *catalogServer) setOrderDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderDown = down
}

func (s *catalogServer) getOrderCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderCalls
}

// zonedPlants returns the remote fixture set. The curated order ranks
// Pothos first and Fern second; Monstera is unranked.
func zonedPlants() []catalog.Plant {
	return []catalog.Plant{
		{ID: "1", Name: "Fern", GrowZoneNumber: 9, WateringInterval: 3},
		{ID: "2", Name: "Monstera", GrowZoneNumber: 11, WateringInterval: 7},
		{ID: "3", Name: "Pothos", GrowZoneNumber: 9, WateringInterval: 5},
	}
}

func curatedOrder() []string {
	return []string{"3", "1"}
}

func plantNames(plants []catalog.Plant) []string {
	names := make([]string, len(plants))
	for i, p := range plants {
		names[i] = p.Name
	}
	return names
}

// newIntegrationContainer wires a container with a real SQLite store, a
// real cache, and the HTTP client pointed at the fake remote catalog.
func newIntegrationContainer(t *testing.T, srv *httptest.Server, opts ...Option) *Container {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Store.DSN = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Service.BaseURL = srv.URL
	cfg.Service.Timeout = 5 * time.Second

	container, err := NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { container.Close() })
	return container
}

// TestEndToEndCatalogFlow drives the full stack: a refresh pulls the
// remote catalog into the store through the cache decorator, the sorted
// pipeline ranks plants by the curated order, and a second refresh both
// invalidates cached listings and re-emits through the pipeline.
func TestEndToEndCatalogFlow(t *testing.T) {
	cat := newCatalogServer(zonedPlants(), curatedOrder())
	srv := httptest.NewServer(cat.handler())
	defer srv.Close()

	container := newIntegrationContainer(t, srv)
	repo := container.Repository()
	ctx := context.Background()

	if err := repo.TryRefreshAll(ctx); err != nil {
		t.Fatalf("TryRefreshAll() failed: %v", err)
	}

	// Plain store reads come back name-ordered and get cached
	plants, err := container.Store().All(ctx)
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	wantNames := []string{"Fern", "Monstera", "Pothos"}
	if got := plantNames(plants); !slices.Equal(got, wantNames) {
		t.Errorf("Expected store order %v, got %v", wantNames, got)
	}

	// The sorted pipeline ranks by the curated order instead
	ch, err := repo.ObserveAllSorted(ctx)
	if err != nil {
		t.Fatalf("ObserveAllSorted() failed: %v", err)
	}
	first := testsupport.Recv(t, ch, recvTimeout)
	wantSorted := []string{"Pothos", "Fern", "Monstera"}
	if got := plantNames(first); !slices.Equal(got, wantSorted) {
		t.Errorf("Expected sorted emission %v, got %v", wantSorted, got)
	}

	// A new remote plant arrives; the next refresh writes it through,
	// invalidates the cached listing, and wakes the pipeline.
	cat.setPlants(append(zonedPlants(), catalog.Plant{
		ID: "4", Name: "Aloe", GrowZoneNumber: 10, WateringInterval: 14,
	}))
	if err := repo.TryRefreshAll(ctx); err != nil {
		t.Fatalf("Second TryRefreshAll() failed: %v", err)
	}

	second := testsupport.Recv(t, ch, recvTimeout)
	wantSecond := []string{"Pothos", "Fern", "Aloe", "Monstera"}
	if got := plantNames(second); !slices.Equal(got, wantSecond) {
		t.Errorf("Expected re-emission %v, got %v", wantSecond, got)
	}

	// The cached listing was invalidated by the write-through
	plants, err = container.Store().All(ctx)
	if err != nil {
		t.Fatalf("All() after refresh failed: %v", err)
	}
	if len(plants) != 4 {
		t.Errorf("Expected 4 plants after refresh, got %d", len(plants))
	}
}

// TestCustomOrderFetchedOnce verifies that every pipeline shares one
// memoized fetch of the curated order, no matter how many subscriptions
// and emissions consume it.
func TestCustomOrderFetchedOnce(t *testing.T) {
	cat := newCatalogServer(zonedPlants(), curatedOrder())
	srv := httptest.NewServer(cat.handler())
	defer srv.Close()

	container := newIntegrationContainer(t, srv)
	repo := container.Repository()
	ctx := context.Background()

	if err := repo.TryRefreshAll(ctx); err != nil {
		t.Fatalf("TryRefreshAll() failed: %v", err)
	}

	allCh, err := repo.ObserveAllSorted(ctx)
	if err != nil {
		t.Fatalf("ObserveAllSorted() failed: %v", err)
	}
	testsupport.Recv(t, allCh, recvTimeout)

	zoneCh, err := repo.ObserveZoneSorted(ctx, catalog.GrowZone{Number: 9})
	if err != nil {
		t.Fatalf("ObserveZoneSorted() failed: %v", err)
	}
	zone := testsupport.Recv(t, zoneCh, recvTimeout)
	wantZone := []string{"Pothos", "Fern"}
	if got := plantNames(zone); !slices.Equal(got, wantZone) {
		t.Errorf("Expected zone emission %v, got %v", wantZone, got)
	}

	secondAll, err := repo.ObserveAllSorted(ctx)
	if err != nil {
		t.Fatalf("Second ObserveAllSorted() failed: %v", err)
	}
	testsupport.Recv(t, secondAll, recvTimeout)

	if calls := cat.getOrderCalls(); calls != 1 {
		t.Errorf("Expected a single custom order fetch across pipelines, got %d", calls)
	}
}

// TestOrderFailureFallsBackThenRecovers verifies that a failed order
// fetch is not memoized: the subscription that hit the failure keeps the
// name-ordered fallback, while later subscriptions retry and rank.
func TestOrderFailureFallsBackThenRecovers(t *testing.T) {
	cat := newCatalogServer(zonedPlants(), curatedOrder())
	cat.setOrderDown(true)
	srv := httptest.NewServer(cat.handler())
	defer srv.Close()

	container := newIntegrationContainer(t, srv)
	repo := container.Repository()
	ctx := context.Background()

	if err := repo.TryRefreshAll(ctx); err != nil {
		t.Fatalf("TryRefreshAll() failed: %v", err)
	}

	fallback, err := repo.ObserveAllSorted(ctx)
	if err != nil {
		t.Fatalf("ObserveAllSorted() failed: %v", err)
	}
	first := testsupport.Recv(t, fallback, recvTimeout)
	wantFallback := []string{"Fern", "Monstera", "Pothos"}
	if got := plantNames(first); !slices.Equal(got, wantFallback) {
		t.Errorf("Expected name-ordered fallback %v, got %v", wantFallback, got)
	}

	cat.setOrderDown(false)

	recovered, err := repo.ObserveAllSorted(ctx)
	if err != nil {
		t.Fatalf("ObserveAllSorted() after recovery failed: %v", err)
	}
	second := testsupport.Recv(t, recovered, recvTimeout)
	wantSorted := []string{"Pothos", "Fern", "Monstera"}
	if got := plantNames(second); !slices.Equal(got, wantSorted) {
		t.Errorf("Expected ranked emission %v, got %v", wantSorted, got)
	}

	if calls := cat.getOrderCalls(); calls != 2 {
		t.Errorf("Expected failed fetch plus retry, got %d order calls", calls)
	}
}

// TestZoneRefreshFlow verifies the zone-scoped refresh: only the zone's
// plants are fetched and written, and the zone pipeline sees them ranked.
func TestZoneRefreshFlow(t *testing.T) {
	cat := newCatalogServer(zonedPlants(), curatedOrder())
	srv := httptest.NewServer(cat.handler())
	defer srv.Close()

	container := newIntegrationContainer(t, srv)
	repo := container.Repository()
	ctx := context.Background()
	zone := catalog.GrowZone{Number: 9}

	if err := repo.TryRefreshZone(ctx, zone); err != nil {
		t.Fatalf("TryRefreshZone() failed: %v", err)
	}

	plants, err := container.Store().All(ctx)
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	wantStored := []string{"Fern", "Pothos"}
	if got := plantNames(plants); !slices.Equal(got, wantStored) {
		t.Errorf("Expected only zone 9 plants %v, got %v", wantStored, got)
	}

	ch, err := repo.ObserveZoneSorted(ctx, zone)
	if err != nil {
		t.Fatalf("ObserveZoneSorted() failed: %v", err)
	}
	emission := testsupport.Recv(t, ch, recvTimeout)
	wantSorted := []string{"Pothos", "Fern"}
	if got := plantNames(emission); !slices.Equal(got, wantSorted) {
		t.Errorf("Expected zone emission %v, got %v", wantSorted, got)
	}
}

// TestRemoteErrorPropagation verifies that remote failures surface
// through the repository without corrupting the local store.
func TestRemoteErrorPropagation(t *testing.T) {
	cat := newCatalogServer(zonedPlants(), curatedOrder())
	srv := httptest.NewServer(cat.handler())

	container := newIntegrationContainer(t, srv)
	repo := container.Repository()
	ctx := context.Background()

	if err := repo.TryRefreshAll(ctx); err != nil {
		t.Fatalf("TryRefreshAll() failed: %v", err)
	}

	// Remote goes away; refreshes fail but stored plants remain readable
	srv.Close()

	if err := repo.TryRefreshAll(ctx); err == nil {
		t.Error("TryRefreshAll() should fail when the remote is down")
	}

	plants, err := container.Store().All(ctx)
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	if len(plants) != 3 {
		t.Errorf("Expected stored plants to survive remote outage, got %d", len(plants))
	}
}
