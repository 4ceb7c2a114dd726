package cacheinfra

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-model-cache/cache"
)

// LRUConfig configures the expirable LRU backend.
type LRUConfig struct {
	// Size bounds the number of entries per namespace. Must be greater than 0.
	Size int
	// TTL is the default time-to-live, used when Set is called without one.
	TTL time.Duration
}

// Validate checks if the configuration values are valid.
func (c LRUConfig) Validate() error {
	if c.Size <= 0 {
		return &ConfigError{Field: "Size", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	return nil
}

type lruBackend struct {
	cfg        LRUConfig
	namespaces *xsync.MapOf[string, *expirable.LRU[string, entry]]
	now        func() time.Time
}

// NewLRUBackend creates a size-bounded in-process cache.Backend.
func NewLRUBackend(cfg LRUConfig) (*lruBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &lruBackend{
		cfg:        cfg,
		namespaces: xsync.NewMapOf[string, *expirable.LRU[string, entry]](),
		now:        time.Now,
	}, nil
}

func (l *lruBackend) newLRU() *expirable.LRU[string, entry] {
	return expirable.NewLRU[string, entry](l.cfg.Size, nil, l.cfg.TTL)
}

// Get implements cache.Backend.
func (l *lruBackend) Get(ctx context.Context, namespace, key string) cache.GetResult {
	if err := ctx.Err(); err != nil {
		return cache.GetFailed(&cache.BackendError{Op: "get", Namespace: namespace, Key: key, Err: err})
	}

	lru, ok := l.namespaces.Load(namespace)
	if !ok {
		return cache.Miss()
	}

	e, ok := lru.Get(key)
	if !ok {
		return cache.Miss()
	}
	if !l.now().Before(e.expiresAt) {
		lru.Remove(key)
		return cache.Miss()
	}
	return cache.Hit(append([]byte(nil), e.payload...))
}

// Set implements cache.Backend. A non-positive ttl uses LRUConfig.TTL.
func (l *lruBackend) Set(ctx context.Context, namespace, key string, payload []byte, ttl time.Duration) cache.SetResult {
	if err := ctx.Err(); err != nil {
		return cache.SetFailed(&cache.BackendError{Op: "set", Namespace: namespace, Key: key, Err: err})
	}
	if ttl <= 0 {
		ttl = l.cfg.TTL
	}

	lru, _ := l.namespaces.LoadOrCompute(namespace, l.newLRU)
	lru.Add(key, entry{
		payload:   append([]byte(nil), payload...),
		expiresAt: l.now().Add(ttl),
	})
	return cache.Stored()
}

// CreateCache implements cache.Backend.
func (l *lruBackend) CreateCache(ctx context.Context, namespace string) cache.CreateResult {
	if err := ctx.Err(); err != nil {
		return cache.CreateFailed(&cache.BackendError{Op: "create", Namespace: namespace, Err: err})
	}
	if _, loaded := l.namespaces.LoadOrCompute(namespace, l.newLRU); loaded {
		return cache.AlreadyExists()
	}
	return cache.Created()
}

// Len returns the number of live entries held for namespace.
func (l *lruBackend) Len(namespace string) int {
	lru, ok := l.namespaces.Load(namespace)
	if !ok {
		return 0
	}
	return lru.Len()
}

var _ cache.Backend = (*lruBackend)(nil)
