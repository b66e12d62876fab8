package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Window is a sliding-window counter kept in one sorted set per key, scored
// by admission time in milliseconds.
type Window struct {
	client redis.Cmdable
	prefix string
	size   time.Duration
}

func NewWindow(client redis.Cmdable, prefix string, size time.Duration) *Window {
	return &Window{client: client, prefix: prefix, size: size}
}

func (w *Window) Key(id string) string {
	return w.prefix + id
}

// Take admits one event for id at now when fewer than limit were admitted
// in the preceding window. Rejected events are not recorded.
func (w *Window) Take(ctx context.Context, id string, limit int, now time.Time) (bool, error) {
	key := w.Key(id)

	pipe := w.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now.Add(-w.size).UnixMilli(), 10))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("trimming window %s: %w", key, err)
	}

	count := countCmd.Val()
	if count >= int64(limit) {
		return false, nil
	}

	pipe = w.client.Pipeline()
	member := fmt.Sprintf("%d:%d", now.UnixNano(), count)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	// Outlive the window slightly so a key is never dropped mid-window.
	pipe.Expire(ctx, key, w.size+w.size/2)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("recording in window %s: %w", key, err)
	}
	return true, nil
}

// Count returns how many events were admitted for id in the window ending
// at now.
func (w *Window) Count(ctx context.Context, id string, now time.Time) (int, error) {
	from := strconv.FormatInt(now.Add(-w.size).UnixMilli(), 10)
	to := strconv.FormatInt(now.UnixMilli(), 10)

	n, err := w.client.ZCount(ctx, w.Key(id), from, to).Result()
	if err != nil {
		return 0, fmt.Errorf("counting window %s: %w", w.Key(id), err)
	}
	return int(n), nil
}
