package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "honeyshop:queue:"

// RedisDriver keeps jobs in a Redis list (LPUSH / BRPOP) so separate
// `queue:work` processes can share them.
type RedisDriver struct {
	rdb     *redis.Client
	key     string
	timeout time.Duration
}

// NewRedisDriver stores jobs under honeyshop:queue:<name>.
func NewRedisDriver(rdb *redis.Client, name string) *RedisDriver {
	if name == "" {
		name = "default"
	}
	return &RedisDriver{rdb: rdb, key: redisKeyPrefix + name, timeout: 5 * time.Second}
}

func (d *RedisDriver) Push(ctx context.Context, payload []byte) error {
	if err := d.rdb.LPush(ctx, d.key, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push %s: %w", d.key, err)
	}
	return nil
}

// Pop blocks for at most the driver timeout. A timeout yields (nil, nil)
// so the worker loop can notice cancellation.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, d.timeout, d.key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("queue/redis: pop %s: %w", d.key, err)
	case len(result) < 2:
		return nil, nil
	}
	return []byte(result[1]), nil
}

func (d *RedisDriver) Len(ctx context.Context) (int64, error) {
	n, err := d.rdb.LLen(ctx, d.key).Result()
	if err != nil {
		return 0, fmt.Errorf("queue/redis: len %s: %w", d.key, err)
	}
	return n, nil
}
