package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sushant-kumar17/yt-streamer/internal/model"
)

const (
	listKey = "schedules:list"
	listTTL = 30 * time.Second
)

// ScheduleCache holds a short-lived redis copy of the full schedule list for
// the public calendar endpoint. It is explicitly invalidated after every
// mutation; a nil cache is a no-op, so callers never branch on whether redis
// was configured.
type ScheduleCache struct {
	rdb *redis.Client
}

// New returns nil when no address is configured.
func New(address, username, password string) *ScheduleCache {
	if address == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
	return &ScheduleCache{rdb: rdb}
}

func (c *ScheduleCache) GetList(ctx context.Context) ([]model.Schedule, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, listKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Error().Err(err).Msg("schedule cache read failed")
		}
		return nil, false
	}
	var out []model.Schedule
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error().Err(err).Msg("schedule cache payload corrupt")
		return nil, false
	}
	return out, true
}

func (c *ScheduleCache) SetList(ctx context.Context, schedules []model.Schedule) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(schedules)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, listKey, raw, listTTL).Err(); err != nil {
		log.Error().Err(err).Msg("schedule cache write failed")
	}
}

// Invalidate drops the cached list; called after every successful mutation.
func (c *ScheduleCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, listKey).Err(); err != nil {
		log.Error().Err(err).Msg("schedule cache invalidation failed")
	}
}
