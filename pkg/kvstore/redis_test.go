package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCmdable struct {
	values map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]string{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	val, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	removed := int64(0)
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, err := NewRedisStoreWithClient(newMockCmdable())
	require.NoError(t, err)

	require.NoError(t, store.Write(KeyCart, []byte(`[{"quantity":2}]`)))

	raw, ok := store.Read(KeyCart)
	require.True(t, ok)
	assert.JSONEq(t, `[{"quantity":2}]`, string(raw))
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	mock := newMockCmdable()
	store, err := NewRedisStoreWithClient(mock)
	require.NoError(t, err)

	require.NoError(t, store.Write(KeyAuthToken, []byte(`"tok"`)))

	_, bare := mock.values[KeyAuthToken]
	assert.False(t, bare)
	_, namespaced := mock.values["tkbshop:kv:"+KeyAuthToken]
	assert.True(t, namespaced)
}

func TestRedisStoreMissingAndRemove(t *testing.T) {
	store, err := NewRedisStoreWithClient(newMockCmdable())
	require.NoError(t, err)

	_, ok := store.Read("tkbshop_absent")
	assert.False(t, ok)

	require.NoError(t, store.Write(KeyFavorites, []byte(`[]`)))
	require.NoError(t, store.Remove(KeyFavorites))
	require.NoError(t, store.Remove(KeyFavorites))

	_, ok = store.Read(KeyFavorites)
	assert.False(t, ok)
}

func TestNewRedisStoreWithClientRequiresSurface(t *testing.T) {
	_, err := NewRedisStoreWithClient(nil)
	assert.Error(t, err)
}
