// Package ratelimit throttles repeated attempts per key with a fixed window.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one attempt.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // zero when Allowed
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Reset(ctx context.Context, key string) error
}

// incrScript counts the attempt and starts the window on the first one, so
// the counter and its TTL are set atomically.
const incrScript = `
local n = redis.call("INCR", KEYS[1])
if n == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`

// RedisLimiter allows max attempts per key within window.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	prefix string
	max    int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(incrScript),
		prefix: prefix,
		max:    max,
		window: window,
	}
}

func (l *RedisLimiter) key(k string) string {
	return l.prefix + ":" + strings.ToLower(strings.TrimSpace(k))
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := l.script.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", l.prefix, err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("rate limit %s: unexpected reply %v", l.prefix, res)
	}

	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if count > l.max {
		if ttl < 0 {
			ttl = l.window
		}
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Remaining: l.max - count}, nil
}

// Reset clears the counter, e.g. after a successful login.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("reset rate limit %s: %w", l.prefix, err)
	}
	return nil
}

// Noop allows everything. Used when Redis is not configured.
type Noop struct{}

func (Noop) Allow(context.Context, string) (Decision, error) { return Decision{Allowed: true}, nil }
func (Noop) Reset(context.Context, string) error             { return nil }

// NewClient parses a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
