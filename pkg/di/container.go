package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-plant-catalog/cache"
	"github.com/goliatone/go-plant-catalog/catalog"
	"github.com/goliatone/go-plant-catalog/internal/netinfra"
	"github.com/goliatone/go-plant-catalog/internal/storeinfra"
	"github.com/goliatone/go-plant-catalog/plantrepo"
	"github.com/goliatone/go-plant-catalog/storecache"
)

// Container provides dependency injection for the plant catalog components.
// It manages singleton instances of the cache service, key serializer,
// backing store, remote service client, and the repository that ties them
// together, wiring the read-through cache between the repository and the
// store.
type Container struct {
	config        Config
	logger        *slog.Logger
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	store         *storeinfra.Store
	cachedStore   *storecache.CachedStore
	service       catalog.PlantService
	repository    *plantrepo.Repository

	sortExec      catalog.Executor
	refreshPolicy plantrepo.RefreshPolicy
}

// Option configures the container before its components are wired.
type Option func(*Container)

// WithLogger sets the logger handed to every component the container
// builds. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPlantService replaces the HTTP catalog client with the given
// implementation. The Service section of the configuration is ignored,
// so no BaseURL is required. Useful for tests and offline tooling.
func WithPlantService(service catalog.PlantService) Option {
	return func(c *Container) {
		if service != nil {
			c.service = service
		}
	}
}

// WithSortExecutor sets the executor the repository uses to offload
// sorting work. Defaults to catalog.DefaultExecutor.
func WithSortExecutor(ex catalog.Executor) Option {
	return func(c *Container) {
		if ex != nil {
			c.sortExec = ex
		}
	}
}

// WithRefreshPolicy sets the policy consulted before each repository
// refresh. Defaults to refreshing unconditionally.
func WithRefreshPolicy(policy plantrepo.RefreshPolicy) Option {
	return func(c *Container) {
		if policy != nil {
			c.refreshPolicy = policy
		}
	}
}

// NewContainer creates a new DI container with the provided configuration.
// It opens the plant store, initializes the cache service and key
// serializer, layers the read-through cache over the store, builds the
// remote catalog client, and constructs the repository on top.
//
// Each component validates its own configuration section; the Service
// section is not consulted when WithPlantService supplies a client.
// The context bounds store initialization only.
func NewContainer(ctx context.Context, config Config, opts ...Option) (*Container, error) {
	c := &Container{
		config: config,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	cacheService, err := cache.NewCacheService(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("di: cache service: %w", err)
	}
	c.cacheService = cacheService
	c.keySerializer = cache.NewDefaultKeySerializer()

	store, err := storeinfra.Open(ctx, config.Store.toInternal(), storeinfra.WithLogger(c.logger))
	if err != nil {
		return nil, fmt.Errorf("di: open store: %w", err)
	}
	c.store = store
	c.cachedStore = storecache.New(store, c.cacheService, c.keySerializer, storecache.WithLogger(c.logger))

	if c.service == nil {
		client, err := netinfra.NewClient(config.Service.toInternal())
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("di: catalog client: %w", err)
		}
		c.service = client
	}

	repoOpts := []plantrepo.Option{plantrepo.WithLogger(c.logger)}
	if c.sortExec != nil {
		repoOpts = append(repoOpts, plantrepo.WithSortExecutor(c.sortExec))
	}
	if c.refreshPolicy != nil {
		repoOpts = append(repoOpts, plantrepo.WithRefreshPolicy(c.refreshPolicy))
	}
	c.repository = plantrepo.New(c.cachedStore, c.service, repoOpts...)

	return c, nil
}

// NewContainerFromEnv creates a new DI container configured from the
// process environment. This is a convenience constructor for typical
// deployments; see ConfigFromEnv for the variable names.
func NewContainerFromEnv(ctx context.Context, opts ...Option) (*Container, error) {
	config, err := ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("di: parse environment: %w", err)
	}
	return NewContainer(ctx, config, opts...)
}

// CacheService returns the singleton cache service instance.
// This allows access to the underlying cache for advanced use cases.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
// This allows access to the key serializer for custom caching implementations.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Store returns the plant store with the read-through cache layered on.
// Reads hit the cache first; writes pass through and invalidate it.
func (c *Container) Store() catalog.PlantStore {
	return c.cachedStore
}

// PlantService returns the remote catalog client.
func (c *Container) PlantService() catalog.PlantService {
	return c.service
}

// Repository returns the singleton plant repository built on the cached
// store and the remote catalog client.
func (c *Container) Repository() *plantrepo.Repository {
	return c.repository
}

// Config returns a copy of the configuration used by this container.
// This is useful for debugging and monitoring purposes.
func (c *Container) Config() Config {
	return c.config
}

// Close releases the container's resources. Observable queries running
// against the store are completed and their channels closed.
func (c *Container) Close() error {
	return c.store.Close()
}

// NewCachedStore wraps base with the container's cache service and key
// serializer. It lets callers layer the read-through cache over a store
// the container did not build, such as a fake in tests.
func (c *Container) NewCachedStore(base catalog.PlantStore) *storecache.CachedStore {
	return storecache.New(base, c.cacheService, c.keySerializer, storecache.WithLogger(c.logger))
}
