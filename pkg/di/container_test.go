package di

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-model-cache/cache"
	"github.com/goliatone/go-model-cache/compression"
	"github.com/goliatone/go-model-cache/pkg/logging"
	"github.com/goliatone/go-model-cache/pkg/metrics"
	"github.com/goliatone/go-model-cache/pkg/testsupport"
)

func TestNewContainer(t *testing.T) {
	config := cache.DefaultConfig()
	config.KeyPrefix = "app"
	config.CacheName = "app-cache"
	config.DefaultTTL = time.Minute
	config.Compression = compression.Zlib
	config.Store.Memory.Capacity = 1000

	container, err := NewContainer(context.Background(), config)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if container.Cache() == nil {
		t.Fatal("Container should have a non-nil cache")
	}

	if container.Backend() == nil {
		t.Error("Container should have a non-nil backend")
	}

	if container.Logger() == nil {
		t.Error("Container should have a non-nil logger")
	}

	if got := container.Cache().Namespace(); got != "app-cache" {
		t.Errorf("Expected namespace %q, got %q", "app-cache", got)
	}

	storedConfig := container.Config()
	if storedConfig.DefaultTTL != config.DefaultTTL {
		t.Errorf("Expected TTL %v, got %v", config.DefaultTTL, storedConfig.DefaultTTL)
	}
	if storedConfig.Store.Memory.Capacity != 1000 {
		t.Errorf("Expected capacity 1000, got %d", storedConfig.Store.Memory.Capacity)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	config := container.Config()
	defaultConfig := cache.DefaultConfig()

	if config.Store.Kind != cache.StoreMemory {
		t.Errorf("Expected default store %q, got %q", cache.StoreMemory, config.Store.Kind)
	}

	if config.DefaultTTL != defaultConfig.DefaultTTL {
		t.Errorf("Expected default TTL %v, got %v", defaultConfig.DefaultTTL, config.DefaultTTL)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*cache.Config)
	}{
		{name: "empty prefix", mutate: func(c *cache.Config) { c.KeyPrefix = "" }},
		{name: "zero ttl", mutate: func(c *cache.Config) { c.DefaultTTL = 0 }},
		{name: "unknown store", mutate: func(c *cache.Config) { c.Store.Kind = "disk" }},
		{name: "zero capacity", mutate: func(c *cache.Config) { c.Store.Memory.Capacity = 0 }},
		{name: "unknown compression", mutate: func(c *cache.Config) { c.Compression = "lz4" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := cache.DefaultConfig()
			tt.mutate(&config)

			if _, err := NewContainer(context.Background(), config); err == nil {
				t.Error("NewContainer() should fail with invalid config")
			}
		})
	}
}

func TestNewContainer_StoreKinds(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		mutate func(*cache.Config)
	}{
		{name: "memory", mutate: func(c *cache.Config) { c.Store.Kind = cache.StoreMemory }},
		{name: "lru", mutate: func(c *cache.Config) { c.Store.Kind = cache.StoreLRU }},
		{name: "redis", mutate: func(c *cache.Config) {
			c.Store.Kind = cache.StoreRedis
			c.Store.Redis.Addrs = []string{mr.Addr()}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			config := cache.DefaultConfig()
			config.CreateCache = true
			tt.mutate(&config)

			container, err := NewContainer(ctx, config)
			if err != nil {
				t.Fatalf("NewContainer() failed: %v", err)
			}
			defer container.Close()

			backend := container.Backend()
			if res := backend.Set(ctx, "ns", "k", []byte("v"), time.Minute); res.Status != cache.StoreSuccess {
				t.Fatalf("Set() failed: %v", res.Err)
			}
			res := backend.Get(ctx, "ns", "k")
			if res.Status != cache.LookupHit || string(res.Value) != "v" {
				t.Errorf("Expected hit with %q, got %v %q", "v", res.Status, res.Value)
			}

			if got := backend.CreateCache(ctx, config.CacheName).Status; got != cache.CreateAlreadyExists {
				t.Errorf("Expected namespace to exist after container creation, got %v", got)
			}
		})
	}
}

func TestNewContainer_Options(t *testing.T) {
	backend := testsupport.NewRecordingBackend()
	config := cache.DefaultConfig()
	config.CreateCache = true

	container, err := NewContainer(context.Background(), config,
		WithBackend(backend),
		WithLogger(logging.NopLogger{}),
		WithMetrics(metrics.Nop{}),
	)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.Backend() != backend {
		t.Error("Container should use the provided backend")
	}

	calls := backend.Calls()
	if len(calls) != 1 || calls[0] != "create model-cache" {
		t.Errorf("Expected a single namespace creation, got %v", calls)
	}
}

func TestNewContainer_CreateCacheFailure(t *testing.T) {
	backend := testsupport.NewRecordingBackend()
	backend.CreateErr = errors.New("forbidden")

	config := cache.DefaultConfig()
	config.CreateCache = true

	_, err := NewContainer(context.Background(), config, WithBackend(backend))
	if !errors.Is(err, cache.ErrBackend) {
		t.Errorf("Expected backend error, got %v", err)
	}
}

func TestContainer_ExternalRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	config := cache.DefaultConfig()
	config.Store.Kind = cache.StoreRedis

	container, err := NewContainer(context.Background(), config, WithRedisClient(client))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if err := container.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("Close() should not close a caller owned client: %v", err)
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if container.Cache() != container.Cache() {
		t.Error("Cache() should return the same instance")
	}

	other, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if other.Cache() == container.Cache() {
		t.Error("Containers should not share caches")
	}
}
