package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
)

// CachedRepository puts a Redis read/write-through cache in front of another
// gateway. The inner gateway stays the source of truth: a Redis failure on
// load falls back to it, a Redis failure on save is only logged.
type CachedRepository struct {
	Client *redis.Client
	Inner  CampaignGateway
	TTL    time.Duration
}

func cacheKey(id string) string { return "campaign:" + id }

func (r *CachedRepository) Load(ctx context.Context, id string) (*model.Campaign, error) {
	log := logrus.WithField("campaign_id", id)

	raw, err := r.Client.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		c, decodeErr := decode(raw)
		if decodeErr == nil {
			return c, nil
		}
		log.WithError(decodeErr).Warn("dropping unreadable cache entry")
		r.Client.Del(ctx, cacheKey(id))
	case errors.Is(err, redis.Nil):
	default:
		log.WithError(err).Warn("cache read failed, loading from store")
	}

	c, err := r.Inner.Load(ctx, id)
	if err != nil || c == nil {
		return c, err
	}
	r.put(ctx, c)
	return c, nil
}

func (r *CachedRepository) Save(ctx context.Context, c *model.Campaign) error {
	if err := r.Inner.Save(ctx, c); err != nil {
		return err
	}
	r.put(ctx, c)
	return nil
}

// Refresh rewrites the cache entry from the inner gateway.
func (r *CachedRepository) Refresh(ctx context.Context, id string) error {
	c, err := r.Inner.Load(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		if err := r.Client.Del(ctx, cacheKey(id)).Err(); err != nil {
			return appErrors.NewStorageError("cache delete", err)
		}
		return nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return appErrors.NewStorageError("encode", err)
	}
	if err := r.Client.Set(ctx, cacheKey(id), raw, r.TTL).Err(); err != nil {
		return appErrors.NewStorageError("cache write", err)
	}
	return nil
}

func (r *CachedRepository) put(ctx context.Context, c *model.Campaign) {
	raw, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := r.Client.Set(ctx, cacheKey(c.ID), raw, r.TTL).Err(); err != nil {
		logrus.WithField("campaign_id", c.ID).WithError(err).Warn("cache write failed")
	}
}

var _ CampaignGateway = (*CachedRepository)(nil)
