// Package redis holds the process-wide Redis client. The backend uses
// Redis for short-lived coordination state only: the resend-mail
// throttle and the idempotency replay cache. Nothing durable lives
// here; a flushed instance costs at most a duplicate email or a
// re-executed write.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

var client *redis.Client

// Init connects the shared client from a redis:// URL. A password
// argument, when non-empty, overrides any credential in the URL.
// Fails fast if the server does not answer a ping.
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}
	if password != "" {
		opts.Password = password
	}

	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return err
	}

	client = c
	return nil
}

// SetClient swaps in a client directly; tests point this at miniredis.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the shared client.
func GetClient() *redis.Client {
	return client
}

// Set stores a value under key for the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return client.Set(ctx, key, value, ttl).Err()
}

// Get returns the value under key; a missing key is an error.
func Get(ctx context.Context, key string) (string, error) {
	return client.Get(ctx, key).Result()
}

// Del removes key.
func Del(ctx context.Context, key string) error {
	return client.Del(ctx, key).Err()
}

// SetNX stores the value only if key is absent, reporting whether this
// call won. Both the mail throttle and the idempotency lock hang off
// this single round trip.
func SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	return client.SetNX(ctx, key, value, ttl).Result()
}
