package service

import (
	"errors"
	"strconv"
	"sync"

	"gorm.io/gorm"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/logging"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
)

// GroupResolver maps session ids to group ids. The mapping is append-only
// and never evicted: the key space is bounded by the number of distinct
// sessions the recorder has ever written, which stays small.
type GroupResolver struct {
	sessions repository.SessionRepositoryInterface

	mu    sync.RWMutex
	cache map[string]string
}

func NewGroupResolver(sessions repository.SessionRepositoryInterface) *GroupResolver {
	return &GroupResolver{
		sessions: sessions,
		cache:    make(map[string]string),
	}
}

// Resolve returns the group id for a session id. A miss is (value "", false),
// never an error: callers skip unresolvable ids. Misses are not cached, so a
// session that appears in the store later resolves on the next call.
func (r *GroupResolver) Resolve(sessionID string) (string, bool) {
	r.mu.RLock()
	groupID, ok := r.cache[sessionID]
	r.mu.RUnlock()
	if ok {
		return groupID, true
	}

	id, err := strconv.ParseInt(sessionID, 10, 64)
	if err != nil {
		return "", false
	}

	groupID, err = r.sessions.GroupIDBySession(id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Warn("session lookup failed", logging.Fields{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
		return "", false
	}
	if groupID == "" {
		return "", false
	}

	r.Prime(sessionID, groupID)
	return groupID, true
}

// Prime inserts a known session→group pair, typically sourced from rows the
// feed or the directory scan already paid to read.
func (r *GroupResolver) Prime(sessionID, groupID string) {
	if sessionID == "" || groupID == "" {
		return
	}
	r.mu.Lock()
	r.cache[sessionID] = groupID
	r.mu.Unlock()
}

// PrimeID is Prime for numeric session ids straight off a store row.
func (r *GroupResolver) PrimeID(sessionID int64, groupID string) {
	r.Prime(strconv.FormatInt(sessionID, 10), groupID)
}

// CachedCount returns the number of resolved mappings held in memory.
func (r *GroupResolver) CachedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
