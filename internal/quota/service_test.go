package quota

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	return s, redis.NewClient(&redis.Options{Addr: s.Addr()})
}

func TestLimiter_UnderLimit(t *testing.T) {
	_, rdb := setupMiniredis(t)
	l := NewLimiter(rdb)
	ctx := context.Background()

	ok, err := l.Take(ctx, "u1", 10)
	require.NoError(t, err)
	assert.True(t, ok)

	used, err := l.Used(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, used)
}

func TestLimiter_DifferentLearners(t *testing.T) {
	_, rdb := setupMiniredis(t)
	l := NewLimiter(rdb)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Take(ctx, "u1", 3)
		require.NoError(t, err)
		assert.True(t, ok, "message %d should be allowed", i+1)
	}

	ok, err := l.Take(ctx, "u1", 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Take(ctx, "ana@mentari.local", 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_SlidingWindow(t *testing.T) {
	_, rdb := setupMiniredis(t)
	l := NewLimiter(rdb)
	ctx := context.Background()

	old := float64(time.Now().Add(-70 * time.Second).UnixMilli())
	for i := 0; i < 3; i++ {
		rdb.ZAdd(ctx, l.window.Key("u1"), redis.Z{Score: old + float64(i), Member: fmt.Sprintf("old:%d", i)})
	}

	ok, err := l.Take(ctx, "u1", 3)
	require.NoError(t, err)
	assert.True(t, ok, "entries outside the window are dropped")

	used, err := l.Used(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, used)
}

func TestLimiter_WindowAdvances(t *testing.T) {
	_, rdb := setupMiniredis(t)
	l := NewLimiter(rdb)
	now := time.Now()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := l.Take(ctx, "u1", 1)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = l.Take(ctx, "u1", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(61 * time.Second)
	ok, err = l.Take(ctx, "u1", 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_DeniesOverLimit(t *testing.T) {
	_, rdb := setupMiniredis(t)
	svc := NewService(NewLimiter(rdb), 2)
	ctx := context.Background()

	require.NoError(t, svc.Allow(ctx, "u1"))
	require.NoError(t, svc.Allow(ctx, "u1"))
	assert.ErrorIs(t, svc.Allow(ctx, "u1"), ErrExceeded)

	st, err := svc.Status(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &Status{MessagesUsedMinute: 2, MessagesLimitMinute: 2}, st)
}

func TestService_FailsOpen(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	svc := NewService(NewLimiter(rdb), 1)
	mr.Close()

	ctx := context.Background()
	assert.NoError(t, svc.Allow(ctx, "u1"))
	assert.NoError(t, svc.Allow(ctx, "u1"))
}

func TestService_NilAllows(t *testing.T) {
	var svc *Service
	assert.NoError(t, svc.Allow(context.Background(), "u1"))
}
