package di

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-model-cache/bunmodel"
	"github.com/goliatone/go-model-cache/cache"
	"github.com/goliatone/go-model-cache/internal/cacheinfra"
	"github.com/goliatone/go-model-cache/model"
	"github.com/goliatone/go-model-cache/modelcache"
	"github.com/goliatone/go-model-cache/pkg/logging"
	"github.com/goliatone/go-model-cache/pkg/metrics"
)

// Container wires the cache backend, logger, metrics and the modelcache.Cache
// built on top of them. Every container owns its instances; nothing is
// shared through package state.
type Container struct {
	config  cache.Config
	backend cache.Backend
	logger  logging.Logger
	metrics metrics.Recorder
	cache   *modelcache.Cache

	redis     redis.UniversalClient
	ownsRedis bool
}

// Option customizes a Container.
type Option func(*Container)

// WithBackend uses backend instead of building one from Config.Store.
func WithBackend(backend cache.Backend) Option {
	return func(c *Container) {
		c.backend = backend
	}
}

// WithLogger sets the logger handed to the cache.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder handed to the cache.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(c *Container) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithRedisClient uses client for the redis store. The caller keeps
// ownership; Close does not close it.
func WithRedisClient(client redis.UniversalClient) Option {
	return func(c *Container) {
		c.redis = client
	}
}

// NewContainer validates config, builds the backend selected by
// config.Store.Kind and the cache over it. When config.CreateCache is set
// the cache namespace is created before returning.
func NewContainer(ctx context.Context, config cache.Config, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("di: invalid config: %w", err)
	}

	c := &Container{
		config:  config,
		logger:  logging.NopLogger{},
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.backend == nil {
		backend, err := c.buildBackend()
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.backend = backend
	}

	mc, err := modelcache.New(c.backend, config,
		modelcache.WithLogger(c.logger),
		modelcache.WithMetrics(c.metrics),
	)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.cache = mc

	if config.CreateCache {
		if err := mc.EnsureNamespace(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("di: create cache namespace: %w", err)
		}
	}

	c.logger.Debug("model cache container ready",
		"store", string(config.Store.Kind),
		"namespace", mc.Namespace(),
		"compression", string(config.Compression),
	)
	return c, nil
}

// NewContainerWithDefaults creates a container over an in-memory store
// using cache.DefaultConfig.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(context.Background(), cache.DefaultConfig())
}

func (c *Container) buildBackend() (cache.Backend, error) {
	store := c.config.Store

	switch store.Kind {
	case cache.StoreMemory:
		return cacheinfra.NewSturdycBackend(cacheinfra.Config{
			Capacity:           store.Memory.Capacity,
			NumShards:          store.Memory.NumShards,
			TTL:                c.config.DefaultTTL,
			EvictionPercentage: store.Memory.EvictionPercentage,
			EvictionInterval:   store.Memory.EvictionInterval,
		})
	case cache.StoreLRU:
		return cacheinfra.NewLRUBackend(cacheinfra.LRUConfig{
			Size: store.LRU.Size,
			TTL:  c.config.DefaultTTL,
		})
	case cache.StoreRedis:
		if c.redis == nil {
			c.redis = redis.NewUniversalClient(&redis.UniversalOptions{
				Addrs:       store.Redis.Addrs,
				Username:    store.Redis.Username,
				Password:    store.Redis.Password,
				DB:          store.Redis.DB,
				DialTimeout: store.Redis.DialTimeout,
			})
			c.ownsRedis = true
		}
		return cacheinfra.NewRedisBackend(cacheinfra.RedisConfig{
			Client:      c.redis,
			RegistryKey: store.Redis.RegistryKey,
			TTL:         c.config.DefaultTTL,
		})
	}
	return nil, fmt.Errorf("di: unknown store kind %q", store.Kind)
}

// Cache returns the cache shared by every model wrapped through this container.
func (c *Container) Cache() *modelcache.Cache {
	return c.cache
}

// Backend returns the backend handle.
func (c *Container) Backend() cache.Backend {
	return c.backend
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// Logger returns the container logger.
func (c *Container) Logger() logging.Logger {
	return c.logger
}

// Close releases the redis client when the container created it.
func (c *Container) Close() error {
	if c.ownsRedis && c.redis != nil {
		err := c.redis.Close()
		c.redis = nil
		return err
	}
	return nil
}

// Wrap decorates m with the container cache.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: di.Wrap[User](container, userModel, modelcache.Params{TTL: time.Minute})
func Wrap[T any](c *Container, m model.Model[T], params modelcache.Params) *modelcache.CachedModel[T] {
	return modelcache.Wrap(c.cache, m, params)
}

// NewCachedRepository adapts a go-repository-bun repository to a model and
// wraps it with the container cache.
func NewCachedRepository[T any](c *Container, db bun.IDB, repo repository.Repository[T], params modelcache.Params, opts ...bunmodel.Option) *modelcache.CachedModel[T] {
	return Wrap[T](c, bunmodel.New(db, repo, opts...), params)
}
