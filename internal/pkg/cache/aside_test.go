package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewStore(NewRedisCacheFromClient(rdb))
}

// counter returns a fetch function that counts its calls.
func counter(v *profile, err error) (func(context.Context) (*profile, error), *int) {
	calls := 0
	return func(context.Context) (*profile, error) {
		calls++
		return v, err
	}, &calls
}

func TestGetOrFetchCachesUntilTTL(t *testing.T) {
	mr, store := newTestRedis(t)
	ctx := context.Background()
	fetch, calls := counter(&profile{ID: "u1", Name: "Ana"}, nil)

	first, err := GetOrFetch(ctx, store, "user:credential:abc", 300*time.Second, fetch)
	require.NoError(t, err)
	second, err := GetOrFetch(ctx, store, "user:credential:abc", 300*time.Second, fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, *calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 300*time.Second, mr.TTL("user:credential:abc"))

	mr.FastForward(301 * time.Second)
	_, err = GetOrFetch(ctx, store, "user:credential:abc", 300*time.Second, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestGetOrFetchDoesNotCacheAbsentResults(t *testing.T) {
	mr, store := newTestRedis(t)
	ctx := context.Background()
	fetch, calls := counter(nil, nil)

	for range 2 {
		v, err := GetOrFetch(ctx, store, "pet:missing", time.Minute, fetch)
		require.NoError(t, err)
		assert.Nil(t, v)
	}

	assert.Equal(t, 2, *calls)
	assert.False(t, mr.Exists("pet:missing"))
}

func TestGetOrFetchDoesNotCacheErrors(t *testing.T) {
	mr, store := newTestRedis(t)
	boom := errors.New("remote down")
	fetch, calls := counter(nil, boom)

	_, err := GetOrFetch(context.Background(), store, "pet:p1", time.Minute, fetch)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, *calls)
	assert.False(t, mr.Exists("pet:p1"))
}

func TestInvalidateForcesRefetch(t *testing.T) {
	mr, store := newTestRedis(t)
	ctx := context.Background()
	fetch, calls := counter(&profile{ID: "p1", Name: "Rex"}, nil)

	_, err := GetOrFetch(ctx, store, "pet:p1", 600*time.Second, fetch)
	require.NoError(t, err)
	require.NoError(t, store.Invalidate(ctx, "pet:p1"))
	assert.False(t, mr.Exists("pet:p1"))

	_, err = GetOrFetch(ctx, store, "pet:p1", 600*time.Second, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestGetOrFetchFallsBackWhenRedisFails(t *testing.T) {
	mr, store := newTestRedis(t)
	mr.SetError("LOADING redis is loading the dataset")
	fetch, calls := counter(&profile{ID: "u1"}, nil)

	v, err := GetOrFetch(context.Background(), store, "user:credential:abc", time.Minute, fetch)

	require.NoError(t, err)
	assert.Equal(t, "u1", v.ID)
	assert.Equal(t, 1, *calls)
}

func TestGetOrFetchReplacesUndecodableEntry(t *testing.T) {
	mr, store := newTestRedis(t)
	require.NoError(t, mr.Set("pet:p1", "{not json"))
	fetch, calls := counter(&profile{ID: "p1"}, nil)

	v, err := GetOrFetch(context.Background(), store, "pet:p1", time.Minute, fetch)

	require.NoError(t, err)
	assert.Equal(t, "p1", v.ID)
	assert.Equal(t, 1, *calls)
	got, err := mr.Get("pet:p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":""}`, got)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "user:credential:abc", GenerateKey("user:credential", "abc"))
	assert.Equal(t, "user:credential", KindOf("user:credential:abc"))
	assert.Equal(t, "pet", KindOf("pet:p1"))
}
