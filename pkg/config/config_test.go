package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-model-cache/cache"
	"github.com/goliatone/go-model-cache/compression"
	"github.com/goliatone/go-model-cache/pkg/testsupport"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, cache.DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := testsupport.TempFile(t, "cache.yaml", []byte(`
key_prefix: app
cache_name: app-cache
default_ttl: 90s
compression: zstd
max_key_length: 200
create_cache: true
store:
  kind: redis
  redis:
    addrs:
      - redis-a:6379
      - redis-b:6379
    db: 2
    dial_timeout: 2s
`))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.KeyPrefix)
	assert.Equal(t, "app-cache", cfg.CacheName)
	assert.Equal(t, 90*time.Second, cfg.DefaultTTL)
	assert.Equal(t, compression.Zstd, cfg.Compression)
	assert.Equal(t, 200, cfg.MaxKeyLength)
	assert.True(t, cfg.CreateCache)
	assert.Equal(t, cache.StoreRedis, cfg.Store.Kind)
	assert.Equal(t, []string{"redis-a:6379", "redis-b:6379"}, cfg.Store.Redis.Addrs)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 2*time.Second, cfg.Store.Redis.DialTimeout)

	defaults := cache.DefaultConfig()
	assert.Equal(t, defaults.Store.Redis.RegistryKey, cfg.Store.Redis.RegistryKey)
	assert.Equal(t, defaults.Store.Memory, cfg.Store.Memory)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := testsupport.TempFile(t, "cache.yaml", []byte("key_prefix: from-file\n"))

	t.Setenv("MODELCACHE_KEY_PREFIX", "from-env")
	t.Setenv("MODELCACHE_STORE_KIND", "lru")
	t.Setenv("MODELCACHE_STORE_LRU_SIZE", "42")
	t.Setenv("MODELCACHE_DEFAULT_TTL", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.KeyPrefix)
	assert.Equal(t, cache.StoreLRU, cfg.Store.Kind)
	assert.Equal(t, 42, cfg.Store.LRU.Size)
	assert.Equal(t, time.Minute, cfg.DefaultTTL)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)

	path := testsupport.TempFile(t, "cache.yaml", []byte("compression: lz4\n"))
	_, err = Load(path)
	assert.Error(t, err)

	path = testsupport.TempFile(t, "cache.json", []byte(`{"store": {"kind": "disk"}}`))
	_, err = Load(path)
	assert.Error(t, err)
}
