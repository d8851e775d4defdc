package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, ttl), mr
}

func TestRedisLocker_ExclusiveUntilReleased(t *testing.T) {
	ctx := context.Background()
	locker, mr := newTestLocker(t, time.Minute)
	key := LeadLockKey("lead-1")

	unlock, err := locker.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	_, err = locker.Acquire(ctx, key)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists(key))

	unlock, err = locker.Acquire(ctx, key)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestRedisLocker_ExpiredLockNotReleasedByOldHolder(t *testing.T) {
	ctx := context.Background()
	locker, mr := newTestLocker(t, time.Second)
	key := LeadLockKey("lead-2")

	staleUnlock, err := locker.Acquire(ctx, key)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	freshUnlock, err := locker.Acquire(ctx, key)
	require.NoError(t, err)

	require.NoError(t, staleUnlock(ctx))
	assert.True(t, mr.Exists(key), "stale holder must not delete the new holder's lock")

	require.NoError(t, freshUnlock(ctx))
	assert.False(t, mr.Exists(key))
}

func TestLocksAreScopedPerLead(t *testing.T) {
	ctx := context.Background()
	locker, _ := newTestLocker(t, time.Minute)

	a, err := locker.Acquire(ctx, LeadLockKey("a"))
	require.NoError(t, err)
	b, err := locker.Acquire(ctx, LeadLockKey("b"))
	require.NoError(t, err)
	require.NoError(t, a(ctx))
	require.NoError(t, b(ctx))
}

func TestNoopLocker(t *testing.T) {
	unlock, err := NoopLocker{}.Acquire(context.Background(), "k")
	require.NoError(t, err)
	require.NoError(t, unlock(context.Background()))
}
