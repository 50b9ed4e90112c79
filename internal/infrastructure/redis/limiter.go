package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow prunes members older than the window, refuses when the set is
// full and otherwise records the call. Runs atomically on the server.
var slidingWindow = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit  = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// WindowLimiter is a sliding-window limiter shared by every instance using key.
type WindowLimiter struct {
	client redis.Scripter
	key    string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewWindowLimiter(client redis.Scripter, key string, limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{client: client, key: key, limit: limit, window: window, now: time.Now}
}

// Allow implements generator.Limiter.
func (l *WindowLimiter) Allow(ctx context.Context) (bool, error) {
	now := l.now().UnixMilli()
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()

	res, err := slidingWindow.Run(ctx, l.client, []string{l.key},
		now, l.window.Milliseconds(), l.limit, member).Int()
	if err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}
	return res == 1, nil
}
