package cache

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
)

// TTL constants for different cache types
const (
	RecentMessagesTTL = 30 * time.Second
	GroupDirectoryTTL = 2 * time.Minute
)

// RecentCache handles caching of per-group recent message rows
type RecentCache struct {
	redis *RedisCache
}

// NewRecentCache creates a new recent-messages cache
func NewRecentCache(redis *RedisCache) *RecentCache {
	return &RecentCache{redis: redis}
}

// recentKey generates a cache key for a group's recent messages
func recentKey(groupID string) string {
	return fmt.Sprintf("recent:%s", groupID)
}

// GetRecent retrieves cached recent rows for a group
func (rc *RecentCache) GetRecent(groupID string) ([]repository.MessageRow, bool) {
	if rc == nil || rc.redis == nil {
		return nil, false
	}
	data, err := rc.redis.Get(recentKey(groupID))
	if err != nil || data == nil {
		return nil, false
	}

	var rows []repository.MessageRow
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, false
	}

	return rows, true
}

// SetRecent caches recent rows for a group
func (rc *RecentCache) SetRecent(groupID string, rows []repository.MessageRow) error {
	if rc == nil || rc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(rows)
	if err != nil {
		return err
	}

	return rc.redis.Set(recentKey(groupID), data, RecentMessagesTTL)
}

// InvalidateRecent removes a group's recent rows from cache
func (rc *RecentCache) InvalidateRecent(groupID string) error {
	if rc == nil || rc.redis == nil {
		return nil
	}
	return rc.redis.Delete(recentKey(groupID))
}
