package queue

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueFull is returned when a bounded queue cannot accept more jobs.
var ErrQueueFull = errors.New("queue: full")

const (
	redisJobsKey    = "shopline:queue:jobs"
	redisDelayedKey = "shopline:queue:delayed"
)

// RedisDriver stores jobs in a Redis list so they survive restarts and
// can be shared by multiple worker processes. Delayed jobs sit in a
// sorted set scored by their ready-at timestamp.
type RedisDriver struct {
	rdb *redis.Client
}

func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	return &RedisDriver{rdb: rdb}
}

func (d *RedisDriver) Push(payload []byte) error {
	return d.rdb.RPush(context.Background(), redisJobsKey, payload).Err()
}

// PushDelayed schedules payload to become available after delay.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	score := float64(time.Now().Add(delay).Unix())
	return d.rdb.ZAdd(context.Background(), redisDelayedKey, redis.Z{
		Score:  score,
		Member: payload,
	}).Err()
}

func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	d.promoteDelayed(ctx)

	res, err := d.rdb.BLPop(ctx, 2*time.Second, redisJobsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BLPop returns [key, value].
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}

// promoteDelayed moves due delayed jobs onto the main list.
func (d *RedisDriver) promoteDelayed(ctx context.Context) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	due, err := d.rdb.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
		Min: "-inf", Max: now, Count: 50,
	}).Result()
	if err != nil || len(due) == 0 {
		return
	}

	for _, member := range due {
		removed, err := d.rdb.ZRem(ctx, redisDelayedKey, member).Result()
		if err != nil || removed == 0 {
			continue // another worker claimed it
		}
		d.rdb.RPush(ctx, redisJobsKey, member)
	}
}
