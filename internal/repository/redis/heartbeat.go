package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/core/port"
)

// HeartbeatConfig tunes the per-session activity cache.
type HeartbeatConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// HeartbeatRepository caches per-session last-activity timestamps so the
// heartbeat path stays off the primary database.
type HeartbeatRepository struct {
	client *redis.Client
	cfg    HeartbeatConfig
}

// NewHeartbeatRepository constructs a Redis-backed heartbeat cache.
func NewHeartbeatRepository(client *redis.Client, cfg HeartbeatConfig) *HeartbeatRepository {
	return &HeartbeatRepository{client: client, cfg: cfg}
}

// SetLastActivity records the activity timestamp for the session.
func (r *HeartbeatRepository) SetLastActivity(ctx context.Context, sessionID string, at time.Time) error {
	key := r.key(sessionID)
	if err := r.client.Set(ctx, key, at.UnixNano(), r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("redis set heartbeat: %w", err)
	}
	return nil
}

// GetLastActivity returns the cached activity timestamp for the session.
// The second return value is false when no heartbeat is cached.
func (r *HeartbeatRepository) GetLastActivity(ctx context.Context, sessionID string) (time.Time, bool, error) {
	key := r.key(sessionID)

	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("redis get heartbeat: %w", err)
	}

	ts, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse heartbeat timestamp: %w", err)
	}

	return time.Unix(0, ts), true, nil
}

func (r *HeartbeatRepository) key(sessionID string) string {
	if r.cfg.KeyPrefix == "" {
		return sessionID
	}
	return fmt.Sprintf("%s:%s", r.cfg.KeyPrefix, sessionID)
}

var _ port.HeartbeatCache = (*HeartbeatRepository)(nil)
