// Package config loads cache.Config from a file and MODELCACHE_* environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-model-cache/cache"
)

// EnvPrefix prefixes environment overrides, e.g. MODELCACHE_STORE_KIND.
const EnvPrefix = "MODELCACHE"

// Load reads the configuration file at path, applies environment overrides
// and validates the result. Unset keys keep the values of
// cache.DefaultConfig. An empty path reads the environment only.
func Load(path string) (cache.Config, error) {
	v := viper.New()
	setDefaults(v, cache.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cache.Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg cache.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cache.Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cache.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables can override
// keys that are absent from the file.
func setDefaults(v *viper.Viper, d cache.Config) {
	v.SetDefault("key_prefix", d.KeyPrefix)
	v.SetDefault("cache_name", d.CacheName)
	v.SetDefault("default_ttl", d.DefaultTTL)
	v.SetDefault("compression", string(d.Compression))
	v.SetDefault("max_key_length", d.MaxKeyLength)
	v.SetDefault("create_cache", d.CreateCache)

	v.SetDefault("store.kind", string(d.Store.Kind))

	v.SetDefault("store.memory.capacity", d.Store.Memory.Capacity)
	v.SetDefault("store.memory.num_shards", d.Store.Memory.NumShards)
	v.SetDefault("store.memory.eviction_percentage", d.Store.Memory.EvictionPercentage)
	v.SetDefault("store.memory.eviction_interval", d.Store.Memory.EvictionInterval)

	v.SetDefault("store.lru.size", d.Store.LRU.Size)

	v.SetDefault("store.redis.addrs", d.Store.Redis.Addrs)
	v.SetDefault("store.redis.username", d.Store.Redis.Username)
	v.SetDefault("store.redis.password", d.Store.Redis.Password)
	v.SetDefault("store.redis.db", d.Store.Redis.DB)
	v.SetDefault("store.redis.dial_timeout", d.Store.Redis.DialTimeout)
	v.SetDefault("store.redis.registry_key", d.Store.Redis.RegistryKey)
}
