package payroll

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, store DAStore) (*DACache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDACache(store, client, time.Minute), mr
}

func TestDACacheReadsThrough(t *testing.T) {
	store := newMemStore()
	store.da = []daEntry{{EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Amount: 1800, IsActive: true}}
	cache, mr := newTestCache(t, store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		amount, found, err := cache.GetActiveDA(ctx, january.Start())
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, 1800.0, amount)
	}
	require.Equal(t, 1, store.daCalls)
	require.True(t, mr.Exists(daCachePrefix+"2025-01-01"))

	mr.Del(daCachePrefix + "2025-01-01")
	_, _, err := cache.GetActiveDA(ctx, january.Start())
	require.NoError(t, err)
	require.Equal(t, 2, store.daCalls)
}

func TestDACacheRemembersMisses(t *testing.T) {
	store := newMemStore()
	cache, _ := newTestCache(t, store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, found, err := cache.GetActiveDA(ctx, january.Start())
		require.NoError(t, err)
		require.False(t, found)
	}
	require.Equal(t, 1, store.daCalls)
}

func TestDACacheExpires(t *testing.T) {
	store := newMemStore()
	cache, mr := newTestCache(t, store)
	ctx := context.Background()

	_, _, err := cache.GetActiveDA(ctx, january.Start())
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, _, err = cache.GetActiveDA(ctx, january.Start())
	require.NoError(t, err)
	require.Equal(t, 2, store.daCalls)
}

func TestDACacheWithoutClient(t *testing.T) {
	store := newMemStore()
	cache := NewDACache(store, nil, time.Minute)
	for i := 0; i < 2; i++ {
		_, _, err := cache.GetActiveDA(context.Background(), january.Start())
		require.NoError(t, err)
	}
	require.Equal(t, 2, store.daCalls)
}

func TestDACacheLookupSurvivesCallerCancel(t *testing.T) {
	store := newMemStore()
	store.da = []daEntry{{EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Amount: 1800, IsActive: true}}
	cache, mr := newTestCache(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	amount, found, err := cache.GetActiveDA(ctx, january.Start())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1800.0, amount)
	require.True(t, mr.Exists(daCachePrefix+"2025-01-01"))
}
