package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/Gersa28/Invera-ToDo-List/internal/domain"
)

func newTestCache(t *testing.T) *TaskCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTaskCache(rdb, time.Minute)
}

func datePtr(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	require.NoError(t, err)
	return &d
}

func TestKey_PerUserAndFilter(t *testing.T) {
	plain := Key(1, dom.TaskFilter{})
	otherUser := Key(2, dom.TaskFilter{})
	withQ := Key(1, dom.TaskFilter{Q: "Milk "})
	withQNorm := Key(1, dom.TaskFilter{Q: "milk"})
	withDates := Key(1, dom.TaskFilter{DateFrom: datePtr(t, "2024-03-01"), DateTo: datePtr(t, "2024-03-31")})

	assert.NotEqual(t, plain, otherUser)
	assert.NotEqual(t, plain, withQ)
	assert.NotEqual(t, withQ, withDates)
	// Query normalization: case and surrounding space do not split the cache.
	assert.Equal(t, withQNorm, withQ)
}

func TestCache_MissThenHit(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	key := Key(1, dom.TaskFilter{})

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got, "empty cache is a miss, not an error")

	list := []dom.Task{{ID: 1, UserID: 1, Name: "a", Status: dom.StatusNotStarted}}
	require.NoError(t, c.Set(ctx, key, list))

	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}

func TestCache_InvalidateUserClearsOnlyThatUser(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	keyPlain := Key(1, dom.TaskFilter{})
	keyQ := Key(1, dom.TaskFilter{Q: "x"})
	keyOther := Key(2, dom.TaskFilter{})

	list := []dom.Task{{ID: 1, UserID: 1, Name: "a", Status: dom.StatusNotStarted}}
	require.NoError(t, c.Set(ctx, keyPlain, list))
	require.NoError(t, c.Set(ctx, keyQ, list))
	require.NoError(t, c.Set(ctx, keyOther, list))

	require.NoError(t, c.InvalidateUser(ctx, 1))

	got, err := c.Get(ctx, keyPlain)
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = c.Get(ctx, keyQ)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = c.Get(ctx, keyOther)
	require.NoError(t, err)
	assert.NotNil(t, got, "another user's cache must survive")
}
