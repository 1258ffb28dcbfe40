package abuse

import (
	"context"
	"errors"
	"time"

	"github.com/meridian-vc/survey-platform/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

var ErrRateLimited = errors.New("too many submissions from this origin")

// Limiter throttles submissions per origin hash. It only ever sees the
// one-way hash, never an address.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewLimiter(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, max: max, window: window}
}

// Allow counts one submission attempt for the origin and reports whether it
// stays inside the window budget. Redis outages fail open: losing throttling
// is preferable to refusing survey responses.
func (l *Limiter) Allow(ctx context.Context, originHash string) error {
	if l == nil || l.client == nil || l.max <= 0 {
		return nil
	}

	key := "submit_throttle:" + originHash
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Log.WithError(err).Warn("submission throttle unavailable")
		return nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			logger.Log.WithError(err).Warn("failed to set throttle window")
		}
	}
	if count > int64(l.max) {
		return ErrRateLimited
	}
	return nil
}
