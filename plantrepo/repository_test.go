package plantrepo

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-plant-catalog/catalog"
)

const (
	recvTimeout = 2 * time.Second
	quietWindow = 100 * time.Millisecond
)

// mockStore is an observable store double: tests drive emissions by hand,
// and writes notify observers the way the real store does.
type mockStore struct {
	mu         sync.Mutex
	subs       []chan []catalog.Plant
	observeErr error
	upsertErr  error
	upserted   [][]catalog.Plant
}

func newMockStore() *mockStore {
	return &mockStore{}
}

func (m *mockStore) All(ctx context.Context) ([]catalog.Plant, error) {
	return nil, nil
}

func (m *mockStore) ByZone(ctx context.Context, zone catalog.GrowZone) ([]catalog.Plant, error) {
	return nil, nil
}

func (m *mockStore) ObserveAll(ctx context.Context) (<-chan []catalog.Plant, error) {
	return m.subscribe()
}

func (m *mockStore) ObserveByZone(ctx context.Context, zone catalog.GrowZone) (<-chan []catalog.Plant, error) {
	return m.subscribe()
}

func (m *mockStore) StreamAll(ctx context.Context) iter.Seq2[[]catalog.Plant, error] {
	return func(yield func([]catalog.Plant, error) bool) {}
}

func (m *mockStore) StreamByZone(ctx context.Context, zone catalog.GrowZone) iter.Seq2[[]catalog.Plant, error] {
	return func(yield func([]catalog.Plant, error) bool) {}
}

func (m *mockStore) UpsertAll(ctx context.Context, plants []catalog.Plant) error {
	m.mu.Lock()
	if m.upsertErr != nil {
		defer m.mu.Unlock()
		return m.upsertErr
	}
	m.upserted = append(m.upserted, append([]catalog.Plant(nil), plants...))
	m.mu.Unlock()

	m.emit(plants)
	return nil
}

func (m *mockStore) subscribe() (<-chan []catalog.Plant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.observeErr != nil {
		return nil, m.observeErr
	}
	ch := make(chan []catalog.Plant, 16)
	m.subs = append(m.subs, ch)
	return ch, nil
}

// emit delivers plants to every observer, in subscription order.
func (m *mockStore) emit(plants []catalog.Plant) {
	m.mu.Lock()
	subs := append([]chan []catalog.Plant(nil), m.subs...)
	m.mu.Unlock()
	for _, ch := range subs {
		ch <- plants
	}
}

// closeAll simulates the store shutting down.
func (m *mockStore) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		close(ch)
	}
	m.subs = nil
}

func (m *mockStore) getUpserted() [][]catalog.Plant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]catalog.Plant(nil), m.upserted...)
}

func (m *mockStore) subCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// waitForSubs blocks until the store has n observers, for tests whose
// subscription happens on another goroutine.
func waitForSubs(t *testing.T, store *mockStore, n int) {
	t.Helper()
	deadline := time.Now().Add(recvTimeout)
	for store.subCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d subscriptions", n)
		}
		time.Sleep(time.Millisecond)
	}
}

// mockService is a remote service double with per-zone results and a
// swappable sort order outcome.
type mockService struct {
	mu          sync.Mutex
	allResult   []catalog.Plant
	allErr      error
	allCalls    int
	zoneResults map[int][]catalog.Plant
	zoneErrs    map[int]error
	zoneCalls   []int
	orderResult []string
	orderErr    error
	orderCalls  int
}

func newMockService() *mockService {
	return &mockService{
		zoneResults: make(map[int][]catalog.Plant),
		zoneErrs:    make(map[int]error),
	}
}

func (m *mockService) AllPlants(ctx context.Context) ([]catalog.Plant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allCalls++
	return m.allResult, m.allErr
}

func (m *mockService) PlantsByZone(ctx context.Context, zone catalog.GrowZone) ([]catalog.Plant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoneCalls = append(m.zoneCalls, zone.Number)
	if err := m.zoneErrs[zone.Number]; err != nil {
		return nil, err
	}
	return m.zoneResults[zone.Number], nil
}

func (m *mockService) CustomSortOrder(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderCalls++
	return m.orderResult, m.orderErr
}

func (m *mockService) setOrder(order []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderResult = order
	m.orderErr = err
}

func (m *mockService) getOrderCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orderCalls
}

func (m *mockService) getZoneCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.zoneCalls...)
}

func (m *mockService) getAllCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allCalls
}

// queuedExecutor captures submitted functions so tests control when, and
// in what order, offloaded sorts run.
type queuedExecutor struct {
	fns chan func()
}

func newQueuedExecutor() *queuedExecutor {
	return &queuedExecutor{fns: make(chan func(), 16)}
}

func (q *queuedExecutor) Execute(fn func()) {
	q.fns <- fn
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// orderedPlants is the canonical sort example: IDs 1..3, names in
// alphabetical order, so a custom order of ["3","1"] must yield
// Cherry, Apple, Banana.
func orderedPlants() []catalog.Plant {
	return []catalog.Plant{
		{ID: "1", Name: "Apple"},
		{ID: "2", Name: "Banana"},
		{ID: "3", Name: "Cherry"},
	}
}

func names(plants []catalog.Plant) []string {
	out := make([]string, len(plants))
	for i, p := range plants {
		out[i] = p.Name
	}
	return out
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_Defaults(t *testing.T) {
	store := newMockStore()
	service := newMockService()

	r := New(store, service)

	if r.store != store {
		t.Error("store not wired")
	}
	if r.service != service {
		t.Error("service not wired")
	}
	if r.orderCell == nil {
		t.Error("expected an order cell")
	}
	if r.sortExec == nil {
		t.Error("expected a default sort executor")
	}
	if r.logger == nil {
		t.Error("expected a default logger")
	}
	if _, ok := r.policy.(AlwaysRefresh); !ok {
		t.Errorf("expected AlwaysRefresh default policy, got %T", r.policy)
	}
}

func TestNew_Options(t *testing.T) {
	ex := newQueuedExecutor()
	logger := quietLogger()
	policy := neverRefresh{}

	r := New(newMockStore(), newMockService(),
		WithSortExecutor(ex),
		WithLogger(logger),
		WithRefreshPolicy(policy),
	)

	if r.sortExec != catalog.Executor(ex) {
		t.Error("sort executor option not applied")
	}
	if r.logger != logger {
		t.Error("logger option not applied")
	}
	if _, ok := r.policy.(neverRefresh); !ok {
		t.Errorf("expected neverRefresh policy, got %T", r.policy)
	}
}

func TestNew_NilOptionsKeepDefaults(t *testing.T) {
	r := New(newMockStore(), newMockService(),
		WithSortExecutor(nil),
		WithLogger(nil),
		WithRefreshPolicy(nil),
	)

	if r.sortExec == nil || r.logger == nil || r.policy == nil {
		t.Error("nil option values must not clear the defaults")
	}
}
