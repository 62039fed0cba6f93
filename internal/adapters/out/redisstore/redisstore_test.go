package redisstore_test

import (
	"context"
	"testing"
	"time"

	"tpts/internal/adapters/out/redisstore"
	"tpts/internal/core/domain/model/kernel"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := redisstore.NewClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestNewClient_FailsOnUnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := redisstore.NewClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestLocker_SecondHolderIsTurnedAway(t *testing.T) {
	_, c := newClient(t)
	locker := redisstore.NewLocker(c)
	ctx := context.Background()

	release, ok, err := locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, release(ctx))

	_, ok, err = locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_ExpiredHolderCannotReleaseSuccessor(t *testing.T) {
	mr, c := newClient(t)
	locker := redisstore.NewLocker(c)
	ctx := context.Background()

	stale, ok, err := locker.TryLock(ctx, "sweep", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("tpts:lock:sweep"), "successor's lock must survive")
}

func TestOtpLimiter(t *testing.T) {
	mr, c := newClient(t)
	limiter := redisstore.NewOtpLimiter(c, 2, time.Minute)
	ctx := context.Background()
	parcelID := kernel.NewUUID()

	for i, want := range []bool{true, true, false} {
		ok, err := limiter.Allow(ctx, parcelID)
		require.NoError(t, err)
		assert.Equal(t, want, ok, "attempt %d", i+1)
	}

	other, err := limiter.Allow(ctx, kernel.NewUUID())
	require.NoError(t, err)
	assert.True(t, other, "counters are per parcel")

	require.NoError(t, limiter.Reset(ctx, parcelID))
	ok, err := limiter.Allow(ctx, parcelID)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("tpts:otp:"+parcelID.String()))
}
