package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills KEYS[1] by whole intervals and takes one token.
// Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// TokenBucket is a distributed token-bucket limiter evaluated atomically in Redis.
type TokenBucket struct {
	client   *redis.Client
	prefix   string
	capacity int
	interval time.Duration
	ttl      time.Duration
}

// NewTokenBucket returns a limiter holding up to capacity tokens per key and
// adding one token every interval.
func NewTokenBucket(client *redis.Client, prefix string, capacity int, interval time.Duration) *TokenBucket {
	ttl := time.Duration(capacity+1) * interval
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return &TokenBucket{client: client, prefix: prefix, capacity: capacity, interval: interval, ttl: ttl}
}

// Allow takes a token for key. When denied, retryAfter is the wait until the
// next token.
func (b *TokenBucket) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	args := []interface{}{
		time.Now().UnixMilli(),
		b.capacity,
		b.interval.Milliseconds(),
		int64(b.ttl / time.Second),
	}
	vals, err := tokenBucketScript.Run(ctx, b.client, []string{b.prefix + ":" + key}, args...).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("token bucket: %w", err)
	}
	if len(vals) != 3 {
		return false, 0, fmt.Errorf("token bucket: unexpected script result %v", vals)
	}
	allowed := asInt64(vals[0]) == 1
	retry := time.Duration(asInt64(vals[2])) * time.Millisecond
	return allowed, retry, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
