package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 10
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed login attempts per email in a fixed Redis
// window. Key format: authfail:<normalized email>
//
// It deliberately fails open: if Redis is unreachable the caller proceeds
// with the login attempt rather than locking everyone out.
type LoginThrottle struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
// Non-positive limits fall back to the defaults.
func NewLoginThrottle(client *redis.Client, maxFailures int, window time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxFailures: maxFailures, window: window}
}

// Allow reports whether the email is still under the failure limit.
func (t *LoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("throttle check: %w", err)
	}
	return n < int64(t.maxFailures), nil
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)

	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, t.key(email)).Err()
}

func (t *LoginThrottle) key(email string) string {
	return "authfail:" + email
}
