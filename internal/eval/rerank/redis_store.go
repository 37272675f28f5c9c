package rerank

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisScoreStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisScoreStore(ctx context.Context, url string, ttl time.Duration) (*RedisScoreStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisScoreStore{client: client, ttl: ttl}, nil
}

func (s *RedisScoreStore) Get(ctx context.Context, keys []string) (map[string]float64, error) {
	out := make(map[string]float64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			continue
		}
		out[keys[i]] = f
	}
	return out, nil
}

func (s *RedisScoreStore) Set(ctx context.Context, scores map[string]float64) error {
	if len(scores) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for k, v := range scores {
		pipe.Set(ctx, k, strconv.FormatFloat(v, 'g', -1, 64), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline set: %w", err)
	}
	return nil
}

func (s *RedisScoreStore) Close() error {
	return s.client.Close()
}
