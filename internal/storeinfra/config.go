package storeinfra

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Driver names accepted by Open. Each maps to a database/sql driver that
// must be linked into the binary.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds the connection settings for the plant store.
type Config struct {
	// Driver selects the SQL driver: "sqlite3" or "postgres".
	Driver string `env:"DRIVER" envDefault:"sqlite3"`

	// DSN is the driver-specific data source name. The default keeps a
	// shared in-memory database alive across pooled connections.
	DSN string `env:"DSN" envDefault:"file::memory:?cache=shared"`

	// MaxOpenConns caps the connection pool. Zero keeps the driver default,
	// except for SQLite where the pool is always capped at one connection.
	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"0"`
}

// DefaultConfig returns settings for a shared in-memory SQLite store.
func DefaultConfig() Config {
	return Config{
		Driver: DriverSQLite,
		DSN:    "file::memory:?cache=shared",
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.MaxOpenConns, validation.Min(0)),
	)
}
