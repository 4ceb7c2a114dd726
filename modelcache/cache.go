package modelcache

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-model-cache/cache"
	"github.com/goliatone/go-model-cache/compression"
	"github.com/goliatone/go-model-cache/pkg/logging"
	"github.com/goliatone/go-model-cache/pkg/metrics"
)

// Cache holds the collaborators shared by every wrapped model: the backend
// handle, key builder, payload compression, logger and metrics.
type Cache struct {
	backend    cache.Backend
	keys       cache.KeyBuilder
	codec      compression.Codec
	namespace  string
	defaultTTL time.Duration
	logger     logging.Logger
	metrics    metrics.Recorder
}

// Option customizes a Cache.
type Option func(*Cache)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the outcome recorder. Defaults to metrics.Nop.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(c *Cache) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithKeyBuilder replaces the key builder derived from the config.
func WithKeyBuilder(keys cache.KeyBuilder) Option {
	return func(c *Cache) {
		if keys != nil {
			c.keys = keys
		}
	}
}

// New creates a Cache over backend. The backend handle is owned by the
// caller and may be shared between caches.
func New(backend cache.Backend, cfg cache.Config, opts ...Option) (*Cache, error) {
	if backend == nil {
		return nil, errors.New("modelcache: backend cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := compression.New(cfg.Compression)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		backend:    backend,
		codec:      codec,
		namespace:  cfg.CacheName,
		defaultTTL: cfg.DefaultTTL,
		logger:     logging.NopLogger{},
		metrics:    metrics.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.keys == nil {
		c.keys = cache.NewDefaultKeyBuilder(cfg.KeyPrefix,
			cache.WithMaxKeyLength(cfg.MaxKeyLength),
			cache.WithKeyLogger(c.logger),
		)
	}
	return c, nil
}

// Namespace returns the backend namespace entries are stored under.
func (c *Cache) Namespace() string {
	return c.namespace
}

// EnsureNamespace creates the backend namespace. An existing namespace is
// not an error.
func (c *Cache) EnsureNamespace(ctx context.Context) error {
	res := c.backend.CreateCache(ctx, c.namespace)
	switch res.Status {
	case cache.CreateSuccess:
		c.logger.Info("cache namespace created", "namespace", c.namespace)
	case cache.CreateAlreadyExists:
		c.logger.Debug("cache namespace already exists", "namespace", c.namespace)
	case cache.CreateError:
		c.logger.Error("unable to create cache namespace", "namespace", c.namespace, "error", res.Err)
		return res.Err
	}
	return nil
}
