package search

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"travelchat/internal/chat"
	"travelchat/internal/metrics"
)

const cacheKeyPrefix = "travelchat:cache:"

// Cache stores search replies in redis keyed by query kind and normalized
// query text. A nil *Cache is a disabled cache.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewCache(client redis.UniversalClient, ttl time.Duration, log *zap.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: log}
}

func cacheKey(kind Kind, query string) string {
	return cacheKeyPrefix + string(kind) + ":" + normalizeQuery(query)
}

// Get returns the cached reply for query. Redis errors count as a miss.
func (c *Cache) Get(ctx context.Context, kind Kind, query string) (chat.Message, bool) {
	if c == nil {
		return chat.Message{}, false
	}
	data, err := c.client.Get(ctx, cacheKey(kind, query)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", zap.Error(err))
		}
		return chat.Message{}, false
	}
	var m chat.Message
	if err := json.Unmarshal(data, &m); err != nil {
		c.logger.Warn("dropping unreadable cache entry", zap.Error(err))
		return chat.Message{}, false
	}
	metrics.CacheHits.Inc()
	return m, true
}

// Set stores a reply. Failures are logged and otherwise ignored.
func (c *Cache) Set(ctx context.Context, kind Kind, query string, m chat.Message) {
	if c == nil {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, cacheKey(kind, query), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.Error(err))
	}
}
