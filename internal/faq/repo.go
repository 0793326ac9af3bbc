package faq

import (
	"context"
	"encoding/json"
	"fmt"

	errx "github.com/Addyshimla/splashark/internal/core/error"
	logx "github.com/Addyshimla/splashark/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis list holding corpus overrides as JSON records.
const DefaultKey = "faq:records"

// Source supplies the FAQ corpus at startup.
type Source interface {
	Load(ctx context.Context) (Corpus, error)
}

// SeedSource serves the built-in corpus.
type SeedSource struct{}

func (SeedSource) Load(ctx context.Context) (Corpus, error) {
	return Seed(), nil
}

// RedisSource loads the corpus from a Redis list so deployments can override
// the seed without rebuilding. An absent or empty key falls back to the seed.
type RedisSource struct {
	rdb redis.Cmdable
	key string
}

func NewRedisSource(rdb redis.Cmdable, key string) *RedisSource {
	if key == "" {
		key = DefaultKey
	}
	return &RedisSource{rdb: rdb, key: key}
}

func (s *RedisSource) Load(ctx context.Context) (Corpus, error) {
	rows, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return Seed(), nil
		}
		logx.Error().Err(err).Str("key", s.key).Msg("failed to load FAQ corpus from redis")
		return nil, errx.WrapRedis(err)
	}
	if len(rows) == 0 {
		logx.Debug().Str("key", s.key).Msg("no FAQ override in redis, using seed corpus")
		return Seed(), nil
	}

	corpus := make(Corpus, 0, len(rows))
	for i, raw := range rows {
		var r Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			logx.Error().Err(err).Str("key", s.key).Int("index", i).Msg("failed to unmarshal FAQ record")
			return nil, fmt.Errorf("unmarshal FAQ record at index %d: %w", i, err)
		}
		corpus = append(corpus, r)
	}
	return corpus, nil
}

// Store replaces the corpus override with the given records.
func (s *RedisSource) Store(ctx context.Context, corpus Corpus) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		logx.Error().Err(err).Str("key", s.key).Msg("failed to clear FAQ corpus key")
		return errx.WrapRedis(err)
	}
	for _, r := range corpus {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal FAQ record %d: %w", r.ID, err)
		}
		if err := s.rdb.RPush(ctx, s.key, b).Err(); err != nil {
			logx.Error().Err(err).Str("key", s.key).Msg("failed to push FAQ record to redis")
			return errx.WrapRedis(err)
		}
	}
	return nil
}

var _ Source = (*RedisSource)(nil)
var _ Source = SeedSource{}
