package quota

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	iredis "github.com/mentari-platform/mentari/internal/redis"
)

const (
	keyPrefix      = "quota:messages:"
	windowDuration = 60 * time.Second
)

// Limiter counts chat messages per learner key over the last minute.
type Limiter struct {
	window *iredis.Window
	now    func() time.Time
}

// NewLimiter creates a Redis-backed sliding window limiter.
func NewLimiter(rdb redis.Cmdable) *Limiter {
	return &Limiter{window: iredis.NewWindow(rdb, keyPrefix, windowDuration), now: time.Now}
}

// Take admits one message when fewer than limit were admitted for learner in
// the current window. Denied messages are not counted.
func (l *Limiter) Take(ctx context.Context, learner string, limit int) (bool, error) {
	return l.window.Take(ctx, learner, limit, l.now())
}

// Used returns how many messages learner sent in the current window.
func (l *Limiter) Used(ctx context.Context, learner string) (int, error) {
	return l.window.Count(ctx, learner, l.now())
}
