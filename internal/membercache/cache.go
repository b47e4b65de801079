// Package membercache is the Redis-backed read cache for member views. A
// cache failure is never fatal: readers fall through to the upstream API and
// the miss is just logged and counted.
package membercache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"society-dashboard/internal/common/database"
	"society-dashboard/internal/common/logger"
	"society-dashboard/internal/common/metrics"
	"society-dashboard/internal/models"
)

const (
	memberKeyPrefix = "member:"
	memberListKey   = "members:all"
)

type Cache struct {
	redis         *database.RedisClient
	log           logger.Logger
	memberTTL     time.Duration
	memberListTTL time.Duration
}

func New(rc *database.RedisClient, log logger.Logger, memberTTL, memberListTTL time.Duration) *Cache {
	return &Cache{
		redis:         rc,
		log:           log,
		memberTTL:     memberTTL,
		memberListTTL: memberListTTL,
	}
}

// GetMember returns the cached record, or (nil, false) on a miss or any
// cache error.
func (c *Cache) GetMember(ctx context.Context, memberID string) (*models.Member, bool) {
	raw, err := c.redis.Get(ctx, memberKeyPrefix+memberID)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("member cache read failed", map[string]interface{}{"memberId": memberID, "error": err.Error()})
			metrics.CacheOps.WithLabelValues("get_member", "error").Inc()
		} else {
			metrics.CacheOps.WithLabelValues("get_member", "miss").Inc()
		}
		return nil, false
	}

	var m models.Member
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		c.log.Warn("member cache entry corrupt", map[string]interface{}{"memberId": memberID, "error": err.Error()})
		_ = c.redis.Del(ctx, memberKeyPrefix+memberID)
		metrics.CacheOps.WithLabelValues("get_member", "error").Inc()
		return nil, false
	}

	metrics.CacheOps.WithLabelValues("get_member", "hit").Inc()
	return &m, true
}

// SetMember stores one member record under its TTL.
func (c *Cache) SetMember(ctx context.Context, m *models.Member) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, memberKeyPrefix+m.ID, data, c.memberTTL); err != nil {
		c.log.Warn("member cache write failed", map[string]interface{}{"memberId": m.ID, "error": err.Error()})
		metrics.CacheOps.WithLabelValues("set_member", "error").Inc()
	}
}

// GetMembers returns the cached member list, or (nil, false).
func (c *Cache) GetMembers(ctx context.Context) ([]models.Member, bool) {
	raw, err := c.redis.Get(ctx, memberListKey)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("member list cache read failed", map[string]interface{}{"error": err.Error()})
			metrics.CacheOps.WithLabelValues("get_members", "error").Inc()
		} else {
			metrics.CacheOps.WithLabelValues("get_members", "miss").Inc()
		}
		return nil, false
	}

	var members []models.Member
	if err := json.Unmarshal([]byte(raw), &members); err != nil {
		_ = c.redis.Del(ctx, memberListKey)
		metrics.CacheOps.WithLabelValues("get_members", "error").Inc()
		return nil, false
	}

	metrics.CacheOps.WithLabelValues("get_members", "hit").Inc()
	return members, true
}

// SetMembers stores the full member list under its TTL.
func (c *Cache) SetMembers(ctx context.Context, members []models.Member) {
	data, err := json.Marshal(members)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, memberListKey, data, c.memberListTTL); err != nil {
		c.log.Warn("member list cache write failed", map[string]interface{}{"error": err.Error()})
		metrics.CacheOps.WithLabelValues("set_members", "error").Inc()
	}
}

// Invalidate drops a member's cached record and the list view that may
// contain a stale copy of it.
func (c *Cache) Invalidate(ctx context.Context, memberID string) {
	if err := c.redis.Del(ctx, memberKeyPrefix+memberID, memberListKey); err != nil {
		c.log.Warn("member cache invalidation failed", map[string]interface{}{"memberId": memberID, "error": err.Error()})
	}
}
