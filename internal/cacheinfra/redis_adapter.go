package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-model-cache/cache"
)

// RedisConfig configures the redis backend.
type RedisConfig struct {
	// Client is the externally owned connection. Required.
	Client redis.UniversalClient
	// RegistryKey names the set that records created namespaces.
	RegistryKey string
	// TTL is the default time-to-live, used when Set is called without one.
	TTL time.Duration
}

// Validate checks if the configuration values are valid.
func (c RedisConfig) Validate() error {
	if c.Client == nil {
		return &ConfigError{Field: "Client", Message: "cannot be nil"}
	}
	if c.RegistryKey == "" {
		return &ConfigError{Field: "RegistryKey", Message: "cannot be empty"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	return nil
}

// redisBackend stores entries as <namespace>/<key> string values.
type redisBackend struct {
	client      redis.UniversalClient
	registryKey string
	ttl         time.Duration
}

// NewRedisBackend creates a cache.Backend over a redis client.
func NewRedisBackend(cfg RedisConfig) (*redisBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisBackend{
		client:      cfg.Client,
		registryKey: cfg.RegistryKey,
		ttl:         cfg.TTL,
	}, nil
}

func redisKey(namespace, key string) string {
	return namespace + "/" + key
}

// Get implements cache.Backend.
func (r *redisBackend) Get(ctx context.Context, namespace, key string) cache.GetResult {
	value, err := r.client.Get(ctx, redisKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cache.Miss()
	}
	if err != nil {
		return cache.GetFailed(&cache.BackendError{Op: "get", Namespace: namespace, Key: key, Err: err})
	}
	return cache.Hit(value)
}

// Set implements cache.Backend. A non-positive ttl uses RedisConfig.TTL.
func (r *redisBackend) Set(ctx context.Context, namespace, key string, payload []byte, ttl time.Duration) cache.SetResult {
	if ttl <= 0 {
		ttl = r.ttl
	}
	if err := r.client.Set(ctx, redisKey(namespace, key), payload, ttl).Err(); err != nil {
		return cache.SetFailed(&cache.BackendError{Op: "set", Namespace: namespace, Key: key, Err: err})
	}
	return cache.Stored()
}

// CreateCache implements cache.Backend by registering the namespace.
func (r *redisBackend) CreateCache(ctx context.Context, namespace string) cache.CreateResult {
	added, err := r.client.SAdd(ctx, r.registryKey, namespace).Result()
	if err != nil {
		return cache.CreateFailed(&cache.BackendError{Op: "create", Namespace: namespace, Err: err})
	}
	if added == 0 {
		return cache.AlreadyExists()
	}
	return cache.Created()
}

var _ cache.Backend = (*redisBackend)(nil)
