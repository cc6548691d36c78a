package temple

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache fronts the public read paths. Misses and failures both report ok=false;
// callers always fall through to the repository.
type Cache interface {
	Cards(ctx context.Context) ([]Card, bool)
	SetCards(ctx context.Context, cards []Card)
	BySlug(ctx context.Context, slug string) (*Temple, bool)
	SetBySlug(ctx context.Context, t *Temple)
	Invalidate(ctx context.Context, slugs ...string)
}

const (
	cardsKey      = "temples:public_cards"
	slugKeyPrefix = "temples:slug:"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

func (c *RedisCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *RedisCache) Cards(ctx context.Context) ([]Card, bool) {
	var cards []Card
	ok := c.get(ctx, cardsKey, &cards)
	return cards, ok
}

func (c *RedisCache) SetCards(ctx context.Context, cards []Card) {
	c.set(ctx, cardsKey, cards)
}

func (c *RedisCache) BySlug(ctx context.Context, slug string) (*Temple, bool) {
	var t Temple
	if !c.get(ctx, slugKeyPrefix+slug, &t) {
		return nil, false
	}
	return &t, true
}

func (c *RedisCache) SetBySlug(ctx context.Context, t *Temple) {
	c.set(ctx, slugKeyPrefix+t.Slug, t)
}

func (c *RedisCache) Invalidate(ctx context.Context, slugs ...string) {
	keys := []string{cardsKey}
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, slugKeyPrefix+s)
		}
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// NopCache disables caching.
type NopCache struct{}

func (NopCache) Cards(context.Context) ([]Card, bool)           { return nil, false }
func (NopCache) SetCards(context.Context, []Card)               {}
func (NopCache) BySlug(context.Context, string) (*Temple, bool) { return nil, false }
func (NopCache) SetBySlug(context.Context, *Temple)             {}
func (NopCache) Invalidate(context.Context, ...string)          {}
