package cache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-model-cache/compression"
)

// StoreKind selects a backend implementation.
type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreLRU    StoreKind = "lru"
	StoreRedis  StoreKind = "redis"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	KeyPrefix    string                `mapstructure:"key_prefix" json:"key_prefix"`
	CacheName    string                `mapstructure:"cache_name" json:"cache_name"`
	DefaultTTL   time.Duration         `mapstructure:"default_ttl" json:"default_ttl"`
	Compression  compression.Algorithm `mapstructure:"compression" json:"compression"`
	MaxKeyLength int                   `mapstructure:"max_key_length" json:"max_key_length"`
	CreateCache  bool                  `mapstructure:"create_cache" json:"create_cache"`
	Store        StoreConfig           `mapstructure:"store" json:"store"`
}

// StoreConfig selects and configures the backend.
type StoreConfig struct {
	Kind   StoreKind    `mapstructure:"kind" json:"kind"`
	Memory MemoryConfig `mapstructure:"memory" json:"memory"`
	LRU    LRUConfig    `mapstructure:"lru" json:"lru"`
	Redis  RedisConfig  `mapstructure:"redis" json:"redis"`
}

// MemoryConfig mirrors the sturdyc client options.
type MemoryConfig struct {
	Capacity           int           `mapstructure:"capacity" json:"capacity"`
	NumShards          int           `mapstructure:"num_shards" json:"num_shards"`
	EvictionPercentage int           `mapstructure:"eviction_percentage" json:"eviction_percentage"`
	EvictionInterval   time.Duration `mapstructure:"eviction_interval" json:"eviction_interval"`
}

// LRUConfig sizes the per-namespace LRU.
type LRUConfig struct {
	Size int `mapstructure:"size" json:"size"`
}

// RedisConfig addresses a redis deployment.
type RedisConfig struct {
	Addrs       []string      `mapstructure:"addrs" json:"addrs"`
	Username    string        `mapstructure:"username" json:"username"`
	Password    string        `mapstructure:"password" json:"password"`
	DB          int           `mapstructure:"db" json:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout" json:"dial_timeout"`
	RegistryKey string        `mapstructure:"registry_key" json:"registry_key"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		KeyPrefix:   DefaultKeyPrefix,
		CacheName:   "model-cache",
		DefaultTTL:  5 * time.Minute,
		Compression: compression.None,
		Store: StoreConfig{
			Kind: StoreMemory,
			Memory: MemoryConfig{
				Capacity:           10000,
				NumShards:          256,
				EvictionPercentage: 10,
			},
			LRU: LRUConfig{
				Size: 10000,
			},
			Redis: RedisConfig{
				Addrs:       []string{"localhost:6379"},
				DialTimeout: 5 * time.Second,
				RegistryKey: "model-cache:namespaces",
			},
		},
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.KeyPrefix, validation.Required),
		validation.Field(&c.CacheName, validation.Required),
		validation.Field(&c.DefaultTTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Compression, validation.In(compression.None, compression.Zlib, compression.Zstd)),
		validation.Field(&c.MaxKeyLength, validation.Min(0)),
		validation.Field(&c.Store),
	)
}

// Validate checks the backend selection and the settings of the selected kind.
func (s StoreConfig) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Kind, validation.Required, validation.In(StoreMemory, StoreLRU, StoreRedis)),
	)
	if err != nil {
		return err
	}

	switch s.Kind {
	case StoreMemory:
		m := s.Memory
		return validation.ValidateStruct(&m,
			validation.Field(&m.Capacity, validation.Required, validation.Min(1)),
			validation.Field(&m.NumShards, validation.Required, validation.Min(1)),
			validation.Field(&m.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		)
	case StoreLRU:
		l := s.LRU
		return validation.ValidateStruct(&l,
			validation.Field(&l.Size, validation.Required, validation.Min(1)),
		)
	case StoreRedis:
		r := s.Redis
		return validation.ValidateStruct(&r,
			validation.Field(&r.Addrs, validation.Required),
			validation.Field(&r.RegistryKey, validation.Required),
		)
	}
	return nil
}
