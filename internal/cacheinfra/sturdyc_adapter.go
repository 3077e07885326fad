package cacheinfra

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc cache adapter.
// It encapsulates the core sturdyc options needed for cache initialization.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int `env:"CAPACITY" envDefault:"10000"`

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0.
	NumShards int `env:"NUM_SHARDS" envDefault:"256"`

	// TTL is the default time-to-live for cached entries.
	// After this duration, entries are considered expired.
	// Must be greater than 0.
	TTL time.Duration `env:"TTL" envDefault:"5m"`

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int `env:"EVICTION_PERCENTAGE" envDefault:"10"`

	// EarlyRefresh configures early refresh behavior for cached entries.
	// If nil, early refresh is disabled.
	EarlyRefresh *EarlyRefreshConfig

	// MissingRecordStorage enables storage for missing record flags.
	// When enabled, the cache will remember keys that returned no results
	// to prevent repeated queries for non-existent records.
	MissingRecordStorage bool `env:"MISSING_RECORD_STORAGE" envDefault:"true"`

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the sturdyc default interval.
	EvictionInterval time.Duration `env:"EVICTION_INTERVAL" envDefault:"0"`
}

// EarlyRefreshConfig configures early refresh behavior.
// Early refresh prevents cache stampedes by refreshing entries
// before they expire when they're frequently accessed.
type EarlyRefreshConfig struct {
	// MinAsyncRefreshTime is the minimum time after which an async refresh can occur
	MinAsyncRefreshTime time.Duration

	// MaxAsyncRefreshTime is the maximum time after which an async refresh can occur
	MaxAsyncRefreshTime time.Duration

	// SyncRefreshTime is when a refresh becomes synchronous instead of async
	SyncRefreshTime time.Duration

	// RetryBaseDelay is the base delay for retry attempts when early refresh fails
	RetryBaseDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EarlyRefresh: &EarlyRefreshConfig{
			MinAsyncRefreshTime: 10 * time.Second,
			MaxAsyncRefreshTime: 20 * time.Second,
			SyncRefreshTime:     30 * time.Second,
			RetryBaseDelay:      100 * time.Millisecond,
		},
		MissingRecordStorage: true,
		EvictionInterval:     0,
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			c.EarlyRefresh.MinAsyncRefreshTime,
			c.EarlyRefresh.MaxAsyncRefreshTime,
			c.EarlyRefresh.SyncRefreshTime,
			c.EarlyRefresh.RetryBaseDelay,
		))
	}

	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
// Returns a validation.Errors keyed by field name if any parameter is invalid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Nanosecond)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.EarlyRefresh),
	)
}

// Validate checks the early refresh windows; zero values are allowed,
// negative ones are not.
func (c EarlyRefreshConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MinAsyncRefreshTime, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxAsyncRefreshTime, validation.Min(time.Duration(0))),
		validation.Field(&c.SyncRefreshTime, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryBaseDelay, validation.Min(time.Duration(0))),
	)
}

// ErrNilFetchFn is returned when GetOrFetch is handed a nil fetch function.
var ErrNilFetchFn = errors.New("cacheinfra: fetch function must not be nil")

// sturdycService wraps a sturdyc client providing caching behaviour.
type sturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService creates a new sturdyc cache service adapter.
// It validates the configuration and initializes a sturdyc client with the
// provided settings. Capacity, NumShards, TTL and EvictionPercentage go to
// sturdyc.New(); the remaining options are applied via ToSturdycOptions.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &sturdycService{client: client}, nil
}

// GetOrFetch implements cache.CacheService.GetOrFetch.
// It returns the cached value for key when present and fresh; otherwise it
// runs fetchFn, stores the result, and returns it. Stampede protection and
// early refresh come from the sturdyc client.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	if fetchFn == nil {
		return nil, ErrNilFetchFn
	}
	return s.client.GetOrFetch(ctx, key, fetchFn)
}

// Delete implements cache.CacheService.Delete.
// Removes a single entry from the cache so the next GetOrFetch for that
// key goes back to the source.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// InvalidateKeys implements cache.CacheService.InvalidateKeys.
// Removes every given key in one pass; used by write-through decorators
// that track the read keys they have populated.
func (s *sturdycService) InvalidateKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		s.client.Delete(key)
	}
	return nil
}
