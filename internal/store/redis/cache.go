package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/slateworks/slate/internal/domain"
)

// Cache fronts the public site lookup path. A cache failure is never fatal:
// reads fall through to the database and writes are dropped with a warning.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("redis.Cache.Close: %w", err)
	}
	return nil
}

// SiteKey is the cache key for a public site lookup.
func SiteKey(slug string) string {
	return "site:" + slug
}

// GetSite returns the cached site for slug, or nil on a miss.
func (c *Cache) GetSite(ctx context.Context, slug string) *domain.Site {
	raw, err := c.client.Get(ctx, SiteKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("site cache read failed")
		return nil
	}

	var s domain.Site
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("site cache entry corrupt; dropping")
		c.Invalidate(ctx, slug)
		return nil
	}

	return &s
}

func (c *Cache) SetSite(ctx context.Context, s *domain.Site) {
	raw, err := json.Marshal(s)
	if err != nil {
		log.Warn().Err(err).Str("slug", s.Slug).Msg("site cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, SiteKey(s.Slug), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("slug", s.Slug).Msg("site cache write failed")
	}
}

// Invalidate drops the cached entry for slug. Called after every content
// update so public pages never serve stale content past the write.
func (c *Cache) Invalidate(ctx context.Context, slug string) {
	if err := c.client.Del(ctx, SiteKey(slug)).Err(); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("site cache invalidate failed")
	}
}
