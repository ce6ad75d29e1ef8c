package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FQ_TEST_REDIS_ADDR points the round-trip tests at a live server.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("FQ_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FQ_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

func TestStore_RedisKey(t *testing.T) {
	assert.Equal(t, "focusquest:progression", New(nil, "").redisKey("progression"))
	assert.Equal(t, "alice:tasks", New(nil, "alice").redisKey("tasks"))
}

func TestStore_UnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	s := New(rdb, "fq")
	ctx := context.Background()

	_, _, err := s.Get(ctx, "progression")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get progression")

	err = s.Update(ctx, "progression", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set progression")

	assert.False(t, s.IsInitialized(ctx))
}

func TestStore_RoundTrip(t *testing.T) {
	s := New(testClient(t), "fq-test")
	ctx := context.Background()

	_, found, err := s.Get(ctx, "progression")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Update(ctx, "progression", []byte(`{"level":2}`)))
	got, found, err := s.Get(ctx, "progression")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"level":2}`, string(got))
}

func TestStore_Initialize(t *testing.T) {
	s := New(testClient(t), "fq-test")
	ctx := context.Background()

	assert.False(t, s.IsInitialized(ctx))
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Initialize(ctx))
	assert.True(t, s.IsInitialized(ctx))
}
