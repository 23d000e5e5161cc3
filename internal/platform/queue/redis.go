package queue

import (
	"context"
	"fmt"

	"sweetshop/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// Queue is a FIFO work queue. Push appends a value; Pop blocks until a value
// is available or the context is cancelled.
type Queue interface {
	Push(ctx context.Context, value string) error
	Pop(ctx context.Context) (string, error)
}

// NewRedisClient connects to the configured Redis instance and verifies the
// connection. The caller owns the returned client and closes it on shutdown.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	fmt.Println("Successfully connected to Redis!")
	return rdb, nil
}

// RedisQueue is a Queue backed by a Redis list.
type RedisQueue struct {
	rdb  *redis.Client
	name string
}

func NewRedisQueue(rdb *redis.Client, name string) *RedisQueue {
	return &RedisQueue{rdb: rdb, name: name}
}

func (q *RedisQueue) Push(ctx context.Context, value string) error {
	return q.rdb.LPush(ctx, q.name, value).Err()
}

func (q *RedisQueue) Pop(ctx context.Context) (string, error) {
	// BRPop with a zero timeout blocks until a value arrives.
	res, err := q.rdb.BRPop(ctx, 0, q.name).Result()
	if err != nil {
		return "", err
	}
	// res is [queueName, value]
	if len(res) < 2 {
		return "", redis.Nil
	}
	return res[1], nil
}
