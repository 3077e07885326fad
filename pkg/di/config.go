package di

import (
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-plant-catalog/cache"
	"github.com/goliatone/go-plant-catalog/internal/netinfra"
	"github.com/goliatone/go-plant-catalog/internal/storeinfra"
)

// Driver names accepted by the store configuration.
const (
	DriverSQLite   = storeinfra.DriverSQLite
	DriverPostgres = storeinfra.DriverPostgres
)

// Config aggregates the configuration for every component the container
// wires. Each section can be populated from the environment; see
// NewContainerFromEnv for the variable names.
type Config struct {
	Cache   cache.Config  `envPrefix:"PLANT_CACHE_"`
	Store   StoreConfig   `envPrefix:"PLANT_STORE_"`
	Service ServiceConfig `envPrefix:"PLANT_SERVICE_"`
}

// StoreConfig exposes the plant store connection settings for consumers
// of the di package.
type StoreConfig struct {
	// Driver selects the SQL driver: "sqlite3" or "postgres".
	Driver string `env:"DRIVER" envDefault:"sqlite3"`

	// DSN is the driver-specific data source name.
	DSN string `env:"DSN" envDefault:"file::memory:?cache=shared"`

	// MaxOpenConns caps the connection pool. Zero keeps the driver default.
	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"0"`
}

// ServiceConfig exposes the remote catalog client settings for consumers
// of the di package.
type ServiceConfig struct {
	// BaseURL is the root URL of the remote plant catalog.
	BaseURL string `env:"BASE_URL"`

	// Timeout bounds each request to the remote catalog.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// DefaultConfig returns a Config populated with sensible defaults: an
// in-memory SQLite store and the default cache settings. The service
// BaseURL has no default and must be set before the config validates,
// unless the container is given a service via WithPlantService.
func DefaultConfig() Config {
	return Config{
		Cache:   cache.DefaultConfig(),
		Store:   defaultStoreConfig(),
		Service: defaultServiceConfig(),
	}
}

// ConfigFromEnv builds a Config from the process environment. Variables
// are grouped by component prefix:
//
//	PLANT_CACHE_*   capacity, shards, TTL and eviction settings
//	PLANT_STORE_*   driver, DSN and pool settings
//	PLANT_SERVICE_* base URL and request timeout
//
// Unset variables fall back to the same defaults as DefaultConfig. Early
// refresh cannot be configured from the environment; populate
// Config.Cache.EarlyRefresh in code when it is needed.
func ConfigFromEnv() (Config, error) {
	return env.ParseAs[Config]()
}

// Validate checks every configuration section.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Cache),
		validation.Field(&c.Store),
		validation.Field(&c.Service),
	)
}

// Validate checks the store connection settings.
func (c StoreConfig) Validate() error {
	return c.toInternal().Validate()
}

// Validate checks the remote catalog client settings.
func (c ServiceConfig) Validate() error {
	return c.toInternal().Validate()
}

func (c StoreConfig) toInternal() storeinfra.Config {
	return storeinfra.Config{
		Driver:       c.Driver,
		DSN:          c.DSN,
		MaxOpenConns: c.MaxOpenConns,
	}
}

func (c ServiceConfig) toInternal() netinfra.Config {
	return netinfra.Config{
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
	}
}

func defaultStoreConfig() StoreConfig {
	cfg := storeinfra.DefaultConfig()
	return StoreConfig{
		Driver:       cfg.Driver,
		DSN:          cfg.DSN,
		MaxOpenConns: cfg.MaxOpenConns,
	}
}

func defaultServiceConfig() ServiceConfig {
	cfg := netinfra.DefaultConfig()
	return ServiceConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}
}
