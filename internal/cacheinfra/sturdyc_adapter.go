package cacheinfra

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-model-cache/cache"
)

// Config holds the configuration for the sturdyc memory backend.
// Every namespace gets its own sturdyc client built from it.
type Config struct {
	// Capacity defines the maximum number of entries a namespace can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of shards per namespace client.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the default time-to-live, used when Set is called without one.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when a namespace reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are swept.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// entry is a stored payload with its own deadline. sturdyc expires entries
// on the client-wide TTL, so shorter per-call TTLs are enforced on read.
type entry struct {
	payload   []byte
	expiresAt time.Time
}

// sturdycBackend keeps one sturdyc client per namespace.
type sturdycBackend struct {
	cfg        Config
	namespaces *xsync.MapOf[string, *sturdyc.Client[entry]]
	now        func() time.Time
}

// NewSturdycBackend creates an in-process cache.Backend.
func NewSturdycBackend(cfg Config) (*sturdycBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &sturdycBackend{
		cfg:        cfg,
		namespaces: xsync.NewMapOf[string, *sturdyc.Client[entry]](),
		now:        time.Now,
	}, nil
}

func (s *sturdycBackend) newClient(ttl time.Duration) *sturdyc.Client[entry] {
	return sturdyc.New[entry](
		s.cfg.Capacity,
		s.cfg.NumShards,
		ttl,
		s.cfg.EvictionPercentage,
		s.cfg.ToSturdycOptions()...,
	)
}

// client returns the namespace client, creating it once on first use.
func (s *sturdycBackend) client(namespace string) *sturdyc.Client[entry] {
	client, _ := s.namespaces.LoadOrCompute(namespace, func() *sturdyc.Client[entry] {
		return s.newClient(s.cfg.TTL)
	})
	return client
}

// Get implements cache.Backend.
func (s *sturdycBackend) Get(ctx context.Context, namespace, key string) cache.GetResult {
	if err := ctx.Err(); err != nil {
		return cache.GetFailed(&cache.BackendError{Op: "get", Namespace: namespace, Key: key, Err: err})
	}

	client, ok := s.namespaces.Load(namespace)
	if !ok {
		return cache.Miss()
	}

	e, ok := client.Get(key)
	if !ok {
		return cache.Miss()
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		client.Delete(key)
		return cache.Miss()
	}

	return cache.Hit(append([]byte(nil), e.payload...))
}

// Set implements cache.Backend. A non-positive ttl uses Config.TTL.
func (s *sturdycBackend) Set(ctx context.Context, namespace, key string, payload []byte, ttl time.Duration) cache.SetResult {
	if err := ctx.Err(); err != nil {
		return cache.SetFailed(&cache.BackendError{Op: "set", Namespace: namespace, Key: key, Err: err})
	}

	if ttl <= 0 {
		ttl = s.cfg.TTL
	}

	s.client(namespace).Set(key, entry{
		payload:   append([]byte(nil), payload...),
		expiresAt: s.now().Add(ttl),
	})
	return cache.Stored()
}

// CreateCache implements cache.Backend.
func (s *sturdycBackend) CreateCache(ctx context.Context, namespace string) cache.CreateResult {
	if err := ctx.Err(); err != nil {
		return cache.CreateFailed(&cache.BackendError{Op: "create", Namespace: namespace, Err: err})
	}

	created := false
	s.namespaces.LoadOrCompute(namespace, func() *sturdyc.Client[entry] {
		created = true
		return s.newClient(s.cfg.TTL)
	})
	if !created {
		return cache.AlreadyExists()
	}
	return cache.Created()
}

// Len returns the number of keys held for namespace.
func (s *sturdycBackend) Len(namespace string) int {
	client, ok := s.namespaces.Load(namespace)
	if !ok {
		return 0
	}
	return len(client.ScanKeys())
}

var _ cache.Backend = (*sturdycBackend)(nil)
