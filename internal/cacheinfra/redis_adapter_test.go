package cacheinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-model-cache/cache"
)

func newRedisBackend(t *testing.T) (*redisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backend, err := NewRedisBackend(RedisConfig{
		Client:      client,
		RegistryKey: "model-cache:namespaces",
		TTL:         time.Minute,
	})
	require.NoError(t, err)
	return backend, mr
}

func TestRedisConfig_Validate(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	assert.NoError(t, RedisConfig{Client: client, RegistryKey: "r", TTL: time.Second}.Validate())

	var cfgErr *ConfigError
	assert.ErrorAs(t, RedisConfig{RegistryKey: "r", TTL: time.Second}.Validate(), &cfgErr)
	assert.Equal(t, "Client", cfgErr.Field)
	assert.Error(t, RedisConfig{Client: client, TTL: time.Second}.Validate())
	assert.Error(t, RedisConfig{Client: client, RegistryKey: "r"}.Validate())
}

func TestRedisBackend_GetSet(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t)

	assert.Equal(t, cache.LookupMiss, backend.Get(ctx, "models", "k").Status)

	require.Equal(t, cache.StoreSuccess, backend.Set(ctx, "models", "k", []byte(`[{"id":1}]`), 30*time.Second).Status)

	stored, err := mr.Get("models/k")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, stored)
	assert.Equal(t, 30*time.Second, mr.TTL("models/k"))

	r := backend.Get(ctx, "models", "k")
	require.Equal(t, cache.LookupHit, r.Status)
	assert.Equal(t, []byte(`[{"id":1}]`), r.Value)
}

func TestRedisBackend_DefaultTTLAndExpiry(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t)

	backend.Set(ctx, "models", "k", []byte("null"), 0)
	assert.Equal(t, time.Minute, mr.TTL("models/k"))

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, cache.LookupMiss, backend.Get(ctx, "models", "k").Status)
}

func TestRedisBackend_CreateCache(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t)

	assert.Equal(t, cache.CreateSuccess, backend.CreateCache(ctx, "models").Status)
	assert.Equal(t, cache.CreateAlreadyExists, backend.CreateCache(ctx, "models").Status)

	members, err := mr.Members("model-cache:namespaces")
	require.NoError(t, err)
	assert.Equal(t, []string{"models"}, members)
}

func TestRedisBackend_Errors(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t)
	mr.SetError("READONLY simulated failure")

	get := backend.Get(ctx, "models", "k")
	assert.Equal(t, cache.LookupError, get.Status)
	assert.True(t, errors.Is(get.Err, cache.ErrBackend))

	set := backend.Set(ctx, "models", "k", []byte("1"), 0)
	assert.Equal(t, cache.StoreError, set.Status)

	create := backend.CreateCache(ctx, "models")
	assert.Equal(t, cache.CreateError, create.Status)
}
