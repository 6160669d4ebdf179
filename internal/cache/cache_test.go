package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-scoring/internal/scoring"
)

func customConfig() scoring.ScoringConfig {
	w := scoring.DefaultWeights()
	w.ExperienceSkills.YearsOfExperience = 20
	w.Education.EducationLevel = 7
	return scoring.NewConfig(w)
}

func fill(t *testing.T, c ConfigCache, cfg scoring.ScoringConfig) {
	t.Helper()
	ctx := context.Background()
	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	stored, err := c.Fill(ctx, cfg, gen)
	require.NoError(t, err)
	require.True(t, stored)
}

// ==========================
// MemoryCache
// ==========================

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(5*time.Minute, WithClock(func() time.Time { return now }))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache must miss")

	fill(t, c, customConfig())

	now = now.Add(4*time.Minute + 59*time.Second)
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.IsCustom)
	assert.Equal(t, customConfig().Weights, got.Weights)

	now = now.Add(time.Second)
	_, ok, _ = c.Get(ctx)
	assert.False(t, ok, "entry must expire at the TTL")
}

func TestMemoryCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	fill(t, c, scoring.Reset())
	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfigCache_FillAfterInvalidateIsDropped(t *testing.T) {
	tests := []struct {
		name  string
		cache func(t *testing.T) ConfigCache
	}{
		{
			name:  "memory",
			cache: func(*testing.T) ConfigCache { return NewMemoryCache(time.Minute) },
		},
		{
			name: "redis",
			cache: func(t *testing.T) ConfigCache {
				_, client := setupMiniRedis(t)
				return NewRedisCache(client, time.Minute)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c := tt.cache(t)

			before, err := c.Generation(ctx)
			require.NoError(t, err)

			// A save lands while the reader is still waiting on the backend.
			require.NoError(t, c.Invalidate(ctx))

			stored, err := c.Fill(ctx, scoring.Reset(), before)
			require.NoError(t, err)
			assert.False(t, stored)

			_, ok, err := c.Get(ctx)
			require.NoError(t, err)
			assert.False(t, ok, "a stale fill must leave the cache empty")

			after, err := c.Generation(ctx)
			require.NoError(t, err)
			assert.Greater(t, after, before)

			stored, err = c.Fill(ctx, customConfig(), after)
			require.NoError(t, err)
			assert.True(t, stored)

			got, ok, err := c.Get(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, customConfig().Weights, got.Weights)
		})
	}
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	fill(t, c, scoring.Reset())

	got, _, _ := c.Get(ctx)
	got.Weights.Education.Courses = 99

	again, _, _ := c.Get(ctx)
	assert.Equal(t, scoring.DefaultWeights().Education.Courses, again.Weights.Education.Courses)
}

// ==========================
// RedisCache (miniredis)
// ==========================

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_RoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniRedis(t)
	c := NewRedisCache(client, 5*time.Minute)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	fill(t, c, customConfig())
	assert.True(t, mr.Exists(ConfigKey))
	assert.Equal(t, 5*time.Minute, mr.TTL(ConfigKey))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, customConfig().Weights, got.Weights)
	assert.True(t, got.IsCustom)

	mr.FastForward(5 * time.Minute)
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniRedis(t)
	c := NewRedisCache(client, time.Minute)

	fill(t, c, scoring.Reset())
	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(ConfigKey))

	gen, err := mr.Get(GenerationKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
	assert.Zero(t, mr.TTL(GenerationKey), "the generation must not expire")
}

func TestRedisCache_CorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniRedis(t)
	require.NoError(t, mr.Set(ConfigKey, "{not json"))

	c := NewRedisCache(client, time.Minute)
	_, ok, err := c.Get(ctx)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(ConfigKey))
}

// ==========================
// RedisCache (redismock)
// ==========================

func TestRedisCache_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("get failure is reported", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet(ConfigKey).SetErr(errors.New("connection refused"))

		_, ok, err := NewRedisCache(client, time.Minute).Get(ctx)
		require.Error(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("generation failure is reported", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet(GenerationKey).SetErr(errors.New("connection refused"))

		_, err := NewRedisCache(client, time.Minute).Generation(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), GenerationKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing generation reads as zero", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet(GenerationKey).RedisNil()

		gen, err := NewRedisCache(client, time.Minute).Generation(ctx)
		require.NoError(t, err)
		assert.Zero(t, gen)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalidate deletes the key and bumps the generation", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectDel(ConfigKey).SetVal(1)
		mock.ExpectIncr(GenerationKey).SetVal(1)
		mock.ExpectTxPipelineExec()

		require.NoError(t, NewRedisCache(client, time.Minute).Invalidate(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
