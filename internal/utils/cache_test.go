package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

type cachedProduct struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func TestSetAndGetCache(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, rdb, "k", cachedProduct{Name: "Tee", Price: 1999}, time.Minute))

	var got cachedProduct
	found, err := GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedProduct{Name: "Tee", Price: 1999}, got)

	mr.FastForward(2 * time.Minute)
	found, err = GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetCache_Miss(t *testing.T) {
	rdb, _ := setupTestRedis(t)

	var got cachedProduct
	found, err := GetCache(context.Background(), rdb, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteCachePrefix(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(AdminUsersCachePrefix+"page=1:size=20", "{}"))
	require.NoError(t, mr.Set(AdminUsersCachePrefix+"page=2:size=20", "{}"))
	require.NoError(t, mr.Set(ProductsCacheKey, "[]"))

	require.NoError(t, DeleteCachePrefix(ctx, rdb, AdminUsersCachePrefix))

	assert.False(t, mr.Exists(AdminUsersCachePrefix+"page=1:size=20"))
	assert.False(t, mr.Exists(AdminUsersCachePrefix+"page=2:size=20"))
	assert.True(t, mr.Exists(ProductsCacheKey))
}

func TestDeleteCache(t *testing.T) {
	rdb, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(OrdersCacheKey(7), "[]"))
	require.NoError(t, DeleteCache(context.Background(), rdb, OrdersCacheKey(7)))

	assert.False(t, mr.Exists("orders:user:7"))
}

func TestNilClientDisablesCache(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, nil, "k", 1, time.Minute))
	found, err := GetCache(ctx, nil, "k", new(int))
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, DeleteCache(ctx, nil, "k"))
	assert.NoError(t, DeleteCachePrefix(ctx, nil, "k"))
}

func TestNewRedisClient_BoundsUnreachableReads(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "", 2, 100*time.Millisecond)
	t.Cleanup(func() { client.Close() })

	opts := client.Options()
	assert.Equal(t, 100*time.Millisecond, opts.DialTimeout)
	assert.Equal(t, 100*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 2, opts.DB)

	mr.Close()
	start := time.Now()
	var dest cachedProduct
	found, err := GetCache(context.Background(), client, "products:all", &dest)
	assert.Error(t, err)
	assert.False(t, found)
	assert.Less(t, time.Since(start), time.Second)
}
