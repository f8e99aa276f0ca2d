package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript performs the refill-and-consume sequence atomically.
// KEYS[1]: tokens key
// KEYS[2]: last refill key (unix milliseconds)
// ARGV[1]: capacity
// ARGV[2]: refill rate (tokens per second)
// ARGV[3]: current unix milliseconds
// ARGV[4]: key TTL in seconds
// Floats travel as strings because redis truncates Lua numbers to
// integers on reply.
var takeScript = redis.NewScript(`
	local tokens_key = KEYS[1]
	local refill_key = KEYS[2]

	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now_ms = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local tokens = tonumber(redis.call("get", tokens_key))
	local last_ms = tonumber(redis.call("get", refill_key))

	if not tokens then
		tokens = capacity
	end
	if not last_ms then
		last_ms = now_ms
	end

	local elapsed_ms = now_ms - last_ms
	if elapsed_ms < 0 then elapsed_ms = 0 end

	tokens = tokens + (elapsed_ms / 1000) * rate
	if tokens > capacity then tokens = capacity end

	local allowed = 0
	local retry_after_ms = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after_ms = math.ceil((1 - tokens) / rate * 1000)
	end

	redis.call("set", tokens_key, tostring(tokens), "EX", ttl)
	redis.call("set", refill_key, tostring(now_ms), "EX", ttl)

	return {allowed, tostring(tokens), retry_after_ms}
`)

// RedisStore implements Store on redis so multiple instances share
// one set of buckets. Keys carry a TTL so idle buckets expire without
// a sweeper.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	idleTTL   time.Duration
	timeNow   func() time.Time
}

// NewRedisStore creates a RedisStore. client can be a *redis.Client,
// *redis.ClusterClient or *redis.Ring.
func NewRedisStore(client redis.UniversalClient, keyPrefix string, idleTTL time.Duration) *RedisStore {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		idleTTL:   idleTTL,
		timeNow:   time.Now,
	}
}

func (s *RedisStore) Take(ctx context.Context, key string, capacity float64, refillRate float64) (Decision, error) {
	tokensKey := s.keyPrefix + "bucket:" + key
	refillKey := s.keyPrefix + "bucket:" + key + ":refill"

	ttlSeconds := int64(s.idleTTL.Seconds())
	nowMs := s.timeNow().UnixMilli()

	result, err := takeScript.Run(ctx, s.client,
		[]string{tokensKey, refillKey},
		capacity, refillRate, nowMs, ttlSeconds,
	).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to run bucket script: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return Decision{}, fmt.Errorf("unexpected bucket script reply: %v", result)
	}

	allowed, ok := values[0].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("unexpected allowed flag: %v", values[0])
	}

	remainingStr, ok := values[1].(string)
	if !ok {
		return Decision{}, fmt.Errorf("unexpected remaining value: %v", values[1])
	}
	remaining, err := strconv.ParseFloat(remainingStr, 64)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to parse remaining tokens: %w", err)
	}

	retryAfterMs, ok := values[2].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("unexpected retry-after value: %v", values[2])
	}

	return Decision{
		Allowed:    allowed == 1,
		Remaining:  remaining,
		RetryAfter: time.Duration(retryAfterMs) * time.Millisecond,
	}, nil
}
