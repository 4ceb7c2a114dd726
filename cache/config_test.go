package cache

import (
	"testing"
	"time"

	"github.com/goliatone/go-model-cache/compression"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.KeyPrefix != DefaultKeyPrefix {
		t.Errorf("KeyPrefix = %q, want %q", cfg.KeyPrefix, DefaultKeyPrefix)
	}
	if cfg.Store.Kind != StoreMemory {
		t.Errorf("Store.Kind = %q, want %q", cfg.Store.Kind, StoreMemory)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing prefix", mutate: func(c *Config) { c.KeyPrefix = "" }, wantErr: true},
		{name: "missing cache name", mutate: func(c *Config) { c.CacheName = "" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.DefaultTTL = 0 }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.DefaultTTL = -time.Second }, wantErr: true},
		{name: "zlib", mutate: func(c *Config) { c.Compression = compression.Zlib }},
		{name: "zstd", mutate: func(c *Config) { c.Compression = compression.Zstd }},
		{name: "unknown compression", mutate: func(c *Config) { c.Compression = "lz4" }, wantErr: true},
		{name: "negative max key length", mutate: func(c *Config) { c.MaxKeyLength = -1 }, wantErr: true},
		{name: "unknown store", mutate: func(c *Config) { c.Store.Kind = "memcached" }, wantErr: true},
		{name: "missing store", mutate: func(c *Config) { c.Store.Kind = "" }, wantErr: true},
		{name: "memory without capacity", mutate: func(c *Config) { c.Store.Memory.Capacity = 0 }, wantErr: true},
		{name: "memory eviction over 100", mutate: func(c *Config) { c.Store.Memory.EvictionPercentage = 101 }, wantErr: true},
		{name: "lru", mutate: func(c *Config) { c.Store.Kind = StoreLRU }},
		{
			name: "lru without size",
			mutate: func(c *Config) {
				c.Store.Kind = StoreLRU
				c.Store.LRU.Size = 0
			},
			wantErr: true,
		},
		{name: "redis", mutate: func(c *Config) { c.Store.Kind = StoreRedis }},
		{
			name: "redis without address",
			mutate: func(c *Config) {
				c.Store.Kind = StoreRedis
				c.Store.Redis.Addrs = nil
			},
			wantErr: true,
		},
		{
			name: "memory settings ignored for redis",
			mutate: func(c *Config) {
				c.Store.Kind = StoreRedis
				c.Store.Memory.Capacity = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
