package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "bv:ratelimit:"

// RedisStore keeps each bucket in a hash with fields "count" and "start"
// (unix milliseconds); the key expires with the window.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps client; the caller owns and closes it.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get reads the bucket for key.
func (s *RedisStore) Get(ctx context.Context, key string) (Bucket, bool, error) {
	vals, err := s.client.HGetAll(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return Bucket{}, false, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(vals) == 0 {
		return Bucket{}, false, nil
	}

	count, err := strconv.Atoi(vals["count"])
	if err != nil {
		return Bucket{}, false, fmt.Errorf("redis bucket %q: bad count: %w", key, err)
	}
	startMs, err := strconv.ParseInt(vals["start"], 10, 64)
	if err != nil {
		return Bucket{}, false, fmt.Errorf("redis bucket %q: bad start: %w", key, err)
	}
	return Bucket{Count: count, WindowStart: time.UnixMilli(startMs)}, true, nil
}

// hitScript opens or increments the bucket in one step. The key expires
// when its window ends; increments do not extend it.
var hitScript = redis.NewScript(`
local start = redis.call('HGET', KEYS[1], 'start')
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
if (not start) or (now - tonumber(start) >= window) then
	redis.call('HSET', KEYS[1], 'count', 1, 'start', now)
	redis.call('PEXPIRE', KEYS[1], window)
	return {1, now}
end
local count = redis.call('HINCRBY', KEYS[1], 'count', 1)
return {count, tonumber(start)}
`)

func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (Bucket, error) {
	windowMs := window.Milliseconds()
	if windowMs < 1 {
		windowMs = 1
	}
	vals, err := hitScript.Run(ctx, s.client, []string{redisKeyPrefix + key}, now.UnixMilli(), windowMs).Int64Slice()
	if err != nil {
		return Bucket{}, fmt.Errorf("redis hit: %w", err)
	}
	if len(vals) != 2 {
		return Bucket{}, fmt.Errorf("redis hit: unexpected reply %v", vals)
	}
	return Bucket{Count: int(vals[0]), WindowStart: time.UnixMilli(vals[1])}, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
