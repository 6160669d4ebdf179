package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"recruit-scoring/internal/scoring"
)

const (
	// ConfigKey is the redis key holding the JSON encoded configuration.
	ConfigKey = "scoring:config"
	// GenerationKey counts invalidations. It never expires.
	GenerationKey = "scoring:config:generation"
)

var errStaleGeneration = errors.New("scoring config generation changed")

// RedisCache shares the configuration between worker replicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (*scoring.ScoringConfig, bool, error) {
	val, err := c.client.Get(ctx, ConfigKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", ConfigKey, err)
	}

	var cfg scoring.ScoringConfig
	if err := json.Unmarshal([]byte(val), &cfg); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.client.Del(ctx, ConfigKey).Err()
		return nil, false, nil
	}
	return &cfg, true, nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, g stringGetter) (int64, error) {
	gen, err := g.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", GenerationKey, err)
	}
	return gen, nil
}

func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, c.client)
}

// Fill writes under WATCH on the generation key, so an Invalidate from any
// replica between the check and the write aborts it.
func (c *RedisCache) Fill(ctx context.Context, cfg scoring.ScoringConfig, gen int64) (bool, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encode scoring config: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ConfigKey, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	switch {
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("redis set %s: %w", ConfigKey, err)
	}
	return true, nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, ConfigKey)
		pipe.Incr(ctx, GenerationKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate %s: %w", ConfigKey, err)
	}
	return nil
}
