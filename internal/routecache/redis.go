package routecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis is a Cache shared between planner instances.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis wraps client. Keys are stored under prefix and expire after ttl;
// a zero ttl keeps them forever.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(k Key) string {
	return r.prefix + k.String()
}

func (r *Redis) Get(ctx context.Context, key Key) (string, bool, error) {
	dirs, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached route: %w", err)
	}
	return dirs, true, nil
}

func (r *Redis) Put(ctx context.Context, key Key, directions string) error {
	if err := r.client.Set(ctx, r.key(key), directions, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache route: %w", err)
	}
	return nil
}
