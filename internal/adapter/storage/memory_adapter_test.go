package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "storefront_shop", []byte(`{"name":"Demo"}`), time.Hour))

	got, ok := cache.Get(ctx, "storefront_shop")
	require.True(t, ok)
	assert.Equal(t, `{"name":"Demo"}`, string(got))
}

func TestMemoryCacheMissOnAbsent(t *testing.T) {
	cache := NewMemoryCache()

	_, ok := cache.Get(context.Background(), "nothing")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	base := time.Now()
	cache.now = func() time.Time { return base }
	require.NoError(t, cache.Set(ctx, "storefront_products", []byte(`{}`), 10*time.Minute))

	// Just before expiry the entry is still served.
	cache.now = func() time.Time { return base.Add(10*time.Minute - time.Second) }
	_, ok := cache.Get(ctx, "storefront_products")
	assert.True(t, ok)

	// Past expiry the entry is a miss and stays gone.
	cache.now = func() time.Time { return base.Add(10*time.Minute + time.Second) }
	_, ok = cache.Get(ctx, "storefront_products")
	assert.False(t, ok)

	cache.now = func() time.Time { return base }
	_, ok = cache.Get(ctx, "storefront_products")
	assert.False(t, ok, "expired entry must not resurrect")
}

func TestMemoryCacheOverwrite(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte(`1`), time.Hour))
	require.NoError(t, cache.Set(ctx, "k", []byte(`2`), time.Hour))

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "2", string(got))
}

func TestMemoryCacheRemove(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte(`1`), time.Hour))
	require.NoError(t, cache.Remove(ctx, "k"))

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)

	// Removing an absent key is not an error.
	require.NoError(t, cache.Remove(ctx, "k"))
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	value := []byte(`{"n":1}`)
	require.NoError(t, cache.Set(ctx, "k", value, time.Hour))
	value[0] = 'X'

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `{"n":1}`, string(got))

	got[0] = 'Y'
	again, _ := cache.Get(ctx, "k")
	assert.Equal(t, `{"n":1}`, string(again))
}
