package cache

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
)

const groupDirectoryKey = "groups:directory"

// GroupCache handles caching of the group directory scan. Aliases and
// favorites are merged in fresh on every request, so edits show up
// immediately even while the scan itself is cached.
type GroupCache struct {
	redis *RedisCache
}

// NewGroupCache creates a new group directory cache
func NewGroupCache(redis *RedisCache) *GroupCache {
	return &GroupCache{redis: redis}
}

// GetDirectory retrieves the cached group directory
func (gc *GroupCache) GetDirectory() ([]repository.GroupRow, bool) {
	if gc == nil || gc.redis == nil {
		return nil, false
	}
	data, err := gc.redis.Get(groupDirectoryKey)
	if err != nil || data == nil {
		return nil, false
	}

	var rows []repository.GroupRow
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, false
	}

	return rows, true
}

// SetDirectory caches the group directory
func (gc *GroupCache) SetDirectory(rows []repository.GroupRow) error {
	if gc == nil || gc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(rows)
	if err != nil {
		return err
	}

	return gc.redis.Set(groupDirectoryKey, data, GroupDirectoryTTL)
}

// InvalidateDirectory removes the group directory from cache
func (gc *GroupCache) InvalidateDirectory() error {
	if gc == nil || gc.redis == nil {
		return nil
	}
	return gc.redis.Delete(groupDirectoryKey)
}
