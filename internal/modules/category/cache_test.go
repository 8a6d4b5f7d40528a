package category

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

func newCached(t *testing.T) (*CachedRepository, *memoryRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	inner := newMemoryRepo()
	return NewCachedRepository(inner, client, time.Minute, nil), inner, mr
}

func TestCachedListReadsThrough(t *testing.T) {
	cached, inner, mr := newCached(t)
	svc := NewService(cached)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "Books"})
	require.NoError(t, err)

	_, err = cached.ListActive(ctx)
	require.NoError(t, err)
	reads := inner.readCount()

	list, err := cached.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, reads, inner.readCount())
	assert.True(t, mr.Exists(listKey))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(listKey))
}

func TestCachedWritesInvalidate(t *testing.T) {
	cached, _, mr := newCached(t)
	svc := NewService(cached)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateRequest{Name: "Books"})
	require.NoError(t, err)
	_, err = cached.GetByID(ctx, c.ID)
	require.NoError(t, err)
	_, err = cached.ListActive(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(itemKey(c.ID)))

	_, err = svc.Delete(ctx, c.ID.String())
	require.NoError(t, err)
	assert.False(t, mr.Exists(listKey))

	list, err := cached.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := cached.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCachedFallsBackWhenRedisDown(t *testing.T) {
	cached, _, mr := newCached(t)
	svc := NewService(cached)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateRequest{Name: "Books"})
	require.NoError(t, err)
	mr.Close()

	got, err := cached.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", got.Name)

	list, err := cached.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCachedRemembersMisses(t *testing.T) {
	cached, inner, mr := newCached(t)
	ctx := context.Background()
	id := uuid.MustParse("2b1f3b9e-8f1c-4c71-9d1e-0f7a1a2b3c4d")

	_, err := cached.GetByID(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	val, err := mr.Get(itemKey(id))
	require.NoError(t, err)
	assert.Equal(t, "notfound", val)
	reads := inner.readCount()

	_, err = cached.GetByID(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, reads, inner.readCount())

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(itemKey(id)))
}

func TestCachedCreateClearsMissMarker(t *testing.T) {
	cached, _, mr := newCached(t)
	ctx := context.Background()
	cat := &Category{ID: uuid.New(), Name: "Garden", Slug: "garden", IsActive: true}

	_, err := cached.GetByID(ctx, cat.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.True(t, mr.Exists(itemKey(cat.ID)))

	require.NoError(t, cached.Create(ctx, cat))
	got, err := cached.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden", got.Name)
}
