package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/scribe/pkg/adapters/redis"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_AcquireAndRelease(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	locker := redis.NewLocker(client, "scribe:")

	ctx := context.Background()
	unlock, err := locker.Lock(ctx, "job-1", 5*time.Second)
	require.NoError(t, err)

	assert.True(t, mr.Exists("scribe:lock:job-1"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("scribe:lock:job-1"))
}

func TestLocker_BlocksSecondHolder(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	locker := redis.NewLocker(client, "scribe:")

	ctx := context.Background()
	unlock, err := locker.Lock(ctx, "job-1", 5*time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	// A second holder must not acquire while the first one holds.
	shortCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(shortCtx, "job-1", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_ReleaseIsScopedToHolder(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	locker := redis.NewLocker(client, "scribe:")

	ctx := context.Background()
	unlock, err := locker.Lock(ctx, "job-1", 5*time.Second)
	require.NoError(t, err)

	// Simulate the lock expiring and another holder taking it.
	mr.Del("scribe:lock:job-1")
	mr.Set("scribe:lock:job-1", "someone-else")

	// Our release must not delete a lock we no longer hold.
	require.NoError(t, unlock(ctx))
	assert.True(t, mr.Exists("scribe:lock:job-1"))
}
