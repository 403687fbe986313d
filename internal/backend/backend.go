// Package backend assembles a search.Service from configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"travelchat/internal/config"
	"travelchat/internal/history"
	"travelchat/internal/search"
)

// Backend owns the search service and the Redis connection behind its cache
// and history.
type Backend struct {
	Service *search.Service
	redis   redis.UniversalClient
}

// New builds the Groq and Duffel clients and, when Redis is configured,
// attaches the response cache and session history. An unreachable Redis is
// an error.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backend, error) {
	groq := search.NewGroqClient(search.GroqConfig{
		APIKey:  cfg.Groq.APIKey,
		BaseURL: cfg.Groq.BaseURL,
		Model:   cfg.Groq.Model,
		Timeout: cfg.Server.Timeout,
	}, log)
	duffel := search.NewDuffelClient(search.DuffelConfig{
		APIKey:  cfg.Duffel.APIKey,
		BaseURL: cfg.Duffel.BaseURL,
		Timeout: cfg.Server.Timeout,
	}, log)

	b := &Backend{Service: search.NewService(groq, duffel, log)}
	if !cfg.Redis.Enabled() {
		log.Info("redis not configured, cache and history disabled")
		return b, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Address, err)
	}
	b.redis = client
	b.Service.
		WithCache(search.NewCache(client, cfg.Cache.TTL, log)).
		WithHistory(history.NewStore(client, cfg.History.MaxLength, log))
	log.Info("redis connected", zap.String("address", cfg.Redis.Address))
	return b, nil
}

// Close releases the Redis connection, if any.
func (b *Backend) Close() error {
	if b.redis == nil {
		return nil
	}
	return b.redis.Close()
}
