package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitSessionPrefix = "ratelimit:session:"
	rateLimitIPPrefix      = "ratelimit:ip:"

	// Buckets idle for this long are dropped; a dropped bucket refills to burst.
	rateLimitSessionTTL = 2 * time.Minute
	rateLimitIPTTL      = 10 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Remaining int64
	// ResetAt is when the bucket will be full again.
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes one token atomically.
// Time is in milliseconds so sub-second refill rates stay accurate.
// Returns {allowed, retry_after_ms, tokens_left_floor, ms_until_full}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per millisecond
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])       -- unix milliseconds
	local ttl = tonumber(ARGV[4])       -- milliseconds

	local data = redis.call('HMGET', key, 'tokens', 'ts')
	local tokens = tonumber(data[1]) or burst
	local ts = tonumber(data[2]) or now

	local elapsed = math.max(0, now - ts)
	tokens = math.min(burst, tokens + elapsed * rate)

	local allowed = 0
	local retry_after = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'ts', now)
	redis.call('PEXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens), math.ceil((burst - tokens) / rate)}
`)

// CheckSessionRateLimit consumes one token from a session's API bucket.
// A non-positive rate disables the limit.
func (c *Cache) CheckSessionRateLimit(ctx context.Context, sessionID string, ratePerMinute, burst int) (*RateLimitResult, error) {
	if ratePerMinute <= 0 {
		return unlimited(burst), nil
	}
	return c.takeToken(ctx, sessionRateLimitKey(sessionID), float64(ratePerMinute)/60, burst, rateLimitSessionTTL)
}

// CheckIPRateLimit consumes one token from a client IP's page bucket.
// The IP is hashed before it is used as a key. A non-positive rate disables
// the limit.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 {
		return unlimited(burst), nil
	}
	return c.takeToken(ctx, ipRateLimitKey(ip), float64(ratePerSecond), burst, rateLimitIPTTL)
}

// takeToken runs the bucket script. Callers decide whether to fail open.
func (c *Cache) takeToken(ctx context.Context, key string, ratePerSecond float64, burst int, ttl time.Duration) (*RateLimitResult, error) {
	if burst < 1 {
		burst = 1
	}
	now := time.Now()

	res, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key},
		ratePerSecond/1000, burst, now.UnixMilli(), ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 4 {
		return nil, fmt.Errorf("rate limit %s: unexpected script reply %v", key, res)
	}

	return &RateLimitResult{
		Allowed:    res[0] == 1,
		Remaining:  res[2],
		ResetAt:    now.Add(time.Duration(res[3]) * time.Millisecond),
		RetryAfter: roundUpToSecond(time.Duration(res[1]) * time.Millisecond),
	}, nil
}

func unlimited(burst int) *RateLimitResult {
	return &RateLimitResult{
		Allowed:   true,
		Remaining: int64(burst),
		ResetAt:   time.Now(),
	}
}

// roundUpToSecond keeps Retry-After from advertising zero while still limited.
func roundUpToSecond(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(d.Seconds())) * time.Second
}

func sessionRateLimitKey(sessionID string) string {
	return rateLimitSessionPrefix + sessionID
}

func ipRateLimitKey(ip string) string {
	return rateLimitIPPrefix + hashIP(ip)
}

// hashIP returns the first 8 bytes of the IP's SHA-256 as hex.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
