package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/spinwin-backend/internal/config"
	"github.com/unclebandit/spinwin-backend/internal/db"
)

// Gateways is the storage stack built from the configuration.
type Gateways struct {
	Campaigns CampaignGateway
	// Cache is nil when no Redis address is configured.
	Cache *CachedRepository

	closers []func() error
}

// Open builds PostgreSQL or in-memory storage, with Redis in front when
// configured.
func Open(ctx context.Context, cfg config.Config) (*Gateways, error) {
	g := &Gateways{}

	if cfg.UsePostgres() {
		conn, err := db.Open(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		g.closers = append(g.closers, conn.Close)
		g.Campaigns = &CampaignRepository{DB: conn}
	} else {
		logrus.Warn("DB_HOST not set, campaigns are kept in memory")
		g.Campaigns = NewMemoryRepository()
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			g.Close()
			client.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		g.closers = append(g.closers, client.Close)
		g.Cache = &CachedRepository{Client: client, Inner: g.Campaigns, TTL: cfg.RedisTTL}
		g.Campaigns = g.Cache
	}
	return g, nil
}

func (g *Gateways) Close() {
	for i := len(g.closers) - 1; i >= 0; i-- {
		if err := g.closers[i](); err != nil {
			logrus.WithError(err).Warn("failed to close storage")
		}
	}
	g.closers = nil
}
