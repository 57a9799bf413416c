package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/adriaway/booking/internal/domain"
	redisx "github.com/adriaway/booking/internal/redis"
	"github.com/redis/go-redis/v9"
)

// Redis is a SlotCache for deployments running more than one instance of
// the widget backend, where a process-local map would give each instance
// its own view. Redis expiry replaces the in-memory timestamp check.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedis(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *Redis) Get(ctx context.Context, date time.Time, routeID string, tourType domain.TourType) ([]domain.TimeSlot, bool) {
	key := redisx.KeySlots(Key(date, routeID, tourType))

	s, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("slot cache read failed", "key", key, "error", err)
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal([]byte(s), &slots); err != nil {
		r.logger.Warn("slot cache entry corrupt", "key", key, "error", err)
		return nil, false
	}

	return slots, true
}

func (r *Redis) Set(ctx context.Context, date time.Time, routeID string, tourType domain.TourType, slots []domain.TimeSlot) {
	key := redisx.KeySlots(Key(date, routeID, tourType))

	b, err := json.Marshal(slots)
	if err != nil {
		r.logger.Warn("slot cache encode failed", "key", key, "error", err)
		return
	}

	if err := r.rdb.Set(ctx, key, string(b), r.ttl).Err(); err != nil {
		r.logger.Warn("slot cache write failed", "key", key, "error", err)
	}
}

func (r *Redis) Clear(ctx context.Context) {
	iter := r.rdb.Scan(ctx, 0, redisx.KeySlotsPattern(), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("slot cache scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("slot cache clear failed", "error", err)
	}
}
