package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shobhit-APP/smart-agriculture-backend/pkg/redis"
)

// ErrUnavailable is returned for every operation while the breaker is
// open or when the backing cache cannot be reached. Callers degrade to
// their authoritative store; they never retry through the breaker.
var ErrUnavailable = errors.New("cache unavailable")

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache key not found")

// Config holds resilient-client settings.
type Config struct {
	// OpTimeout bounds every single cache call so a slow cache never
	// stalls a request indefinitely.
	OpTimeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold int
	// Cooldown is how long the breaker stays open before a probe call
	// is allowed through.
	Cooldown time.Duration
}

// DefaultConfig returns default resilient-client settings.
func DefaultConfig() *Config {
	return &Config{
		OpTimeout:        500 * time.Millisecond,
		FailureThreshold: 5,
		Cooldown:         10 * time.Second,
	}
}

// Client is a resilient cache client shared by every cache-backed
// component (blocklist, reference tokens, OTP ledger). All resilience
// policy lives here rather than scattered across callers.
type Client struct {
	rdb *redis.Client
	cfg *Config

	mu        sync.Mutex
	failures  int
	openUntil time.Time
	now       func() time.Time
}

// New creates a resilient client over the shared redis connection.
func New(rdb *redis.Client, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 500 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 10 * time.Second
	}
	return &Client{rdb: rdb, cfg: cfg, now: time.Now}
}

// allow reports whether a call may proceed under the breaker.
func (c *Client) allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures < c.cfg.FailureThreshold {
		return true
	}
	// Breaker open: permit a half-open probe once the cooldown elapses.
	if c.now().After(c.openUntil) {
		c.openUntil = c.now().Add(c.cfg.Cooldown)
		return true
	}
	return false
}

func (c *Client) record(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil || errors.Is(err, goredis.Nil) {
		c.failures = 0
		return
	}
	c.failures++
	if c.failures == c.cfg.FailureThreshold {
		c.openUntil = c.now().Add(c.cfg.Cooldown)
	}
}

// do runs op with the bounded timeout and breaker accounting.
func (c *Client) do(ctx context.Context, op func(ctx context.Context) error) error {
	if !c.allow() {
		return ErrUnavailable
	}

	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()

	err := op(opCtx)
	c.record(err)

	if err != nil && !errors.Is(err, goredis.Nil) {
		return errors.Join(ErrUnavailable, err)
	}
	return err
}

// Get returns the value at key, ErrNotFound if absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	var val string
	err := c.do(ctx, func(ctx context.Context) error {
		var err error
		val, err = c.rdb.Get(ctx, key).Result()
		return err
	})
	if errors.Is(err, goredis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

// Set stores value at key with a TTL.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.do(ctx, func(ctx context.Context) error {
		return c.rdb.Set(ctx, key, value, ttl).Err()
	})
}

// Del removes keys. Idempotent: deleting an absent key is not an error.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.do(ctx, func(ctx context.Context) error {
		return c.rdb.Del(ctx, keys...).Err()
	})
}

// SAdd adds members to a set.
func (c *Client) SAdd(ctx context.Context, key string, members ...interface{}) error {
	return c.do(ctx, func(ctx context.Context) error {
		return c.rdb.SAdd(ctx, key, members...).Err()
	})
}

// SRem removes members from a set.
func (c *Client) SRem(ctx context.Context, key string, members ...interface{}) error {
	return c.do(ctx, func(ctx context.Context) error {
		return c.rdb.SRem(ctx, key, members...).Err()
	})
}

// SIsMember checks set membership.
func (c *Client) SIsMember(ctx context.Context, key string, member interface{}) (bool, error) {
	var ok bool
	err := c.do(ctx, func(ctx context.Context) error {
		var err error
		ok, err = c.rdb.SIsMember(ctx, key, member).Result()
		return err
	})
	return ok, err
}

// SCard returns the cardinality of a set.
func (c *Client) SCard(ctx context.Context, key string) (int64, error) {
	var n int64
	err := c.do(ctx, func(ctx context.Context) error {
		var err error
		n, err = c.rdb.SCard(ctx, key).Result()
		return err
	})
	return n, err
}

// SMembers returns all members of a set.
func (c *Client) SMembers(ctx context.Context, key string) ([]string, error) {
	var members []string
	err := c.do(ctx, func(ctx context.Context) error {
		var err error
		members, err = c.rdb.SMembers(ctx, key).Result()
		return err
	})
	return members, err
}
