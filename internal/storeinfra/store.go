// Package storeinfra implements catalog.PlantStore on a relational
// database through bun. It supports SQLite for embedded and test use and
// PostgreSQL for shared deployments; the observable queries are driven by
// an in-process change signal, so observers see writes made through this
// store, not writes made by other processes.
package storeinfra

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-plant-catalog/catalog"
	"github.com/goliatone/go-plant-catalog/pubsub"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Interface assertion to ensure Store implements catalog.PlantStore
var _ catalog.PlantStore = (*Store)(nil)

// Store is a bun-backed plant store. All methods are safe for concurrent
// use; writes notify every active observer through an internal hub.
type Store struct {
	db     *bun.DB
	hub    *pubsub.Hub[struct{}]
	logger *slog.Logger
	closed atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for observer requery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open connects to the configured database, verifies the connection and
// ensures the plants table exists.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("storeinfra: invalid config: %w", err)
	}

	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storeinfra: open %s: %w", cfg.Driver, err)
	}

	// SQLite serializes writers, so the pool is capped at one connection;
	// this also keeps a lone in-memory database alive across queries.
	if cfg.Driver == DriverSQLite {
		sqldb.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	var db *bun.DB
	switch cfg.Driver {
	case DriverSQLite:
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb.Close()
		return nil, fmt.Errorf("storeinfra: unsupported driver %q", cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storeinfra: ping %s: %w", cfg.Driver, err)
	}

	if _, err := db.NewCreateTable().Model((*catalog.Plant)(nil)).IfNotExists().Exec(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storeinfra: create plants table: %w", err)
	}

	s := &Store{
		db:     db,
		hub:    pubsub.NewHub[struct{}](),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// All returns every plant, ordered by name.
func (s *Store) All(ctx context.Context) ([]catalog.Plant, error) {
	if s.closed.Load() {
		return nil, catalog.ErrStoreClosed
	}

	var plants []catalog.Plant
	if err := s.db.NewSelect().Model(&plants).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("storeinfra: select plants: %w", err)
	}
	return plants, nil
}

// ByZone returns the plants in the given zone, ordered by name. The
// NoGrowZone sentinel makes it equivalent to All.
func (s *Store) ByZone(ctx context.Context, zone catalog.GrowZone) ([]catalog.Plant, error) {
	if zone.IsNoFilter() {
		return s.All(ctx)
	}
	if s.closed.Load() {
		return nil, catalog.ErrStoreClosed
	}

	var plants []catalog.Plant
	err := s.db.NewSelect().
		Model(&plants).
		Where("grow_zone_number = ?", zone.Number).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("storeinfra: select plants for zone %d: %w", zone.Number, err)
	}
	return plants, nil
}

// UpsertAll inserts or replaces the given plants in one batch and, on
// success, signals every active observer. An empty batch is a no-op and
// signals nothing.
func (s *Store) UpsertAll(ctx context.Context, plants []catalog.Plant) error {
	if s.closed.Load() {
		return catalog.ErrStoreClosed
	}
	if len(plants) == 0 {
		return nil
	}

	_, err := s.db.NewInsert().
		Model(&plants).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("grow_zone_number = EXCLUDED.grow_zone_number").
		Set("watering_interval = EXCLUDED.watering_interval").
		Set("image_url = EXCLUDED.image_url").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storeinfra: upsert %d plants: %w", len(plants), err)
	}

	s.hub.Publish(struct{}{})
	return nil
}

// Close shuts down the change hub, closing every observer channel, and
// then closes the database. Close is idempotent.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.hub.Close()
	return s.db.Close()
}
