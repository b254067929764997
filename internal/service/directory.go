package service

import (
	"errors"
	"strconv"

	"github.com/samber/lo"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/cache"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/config"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/models"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/validation"
)

var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrInvalidSessionID = errors.New("invalid session id")
)

// DirectoryService serves the read-side surface: the group directory and
// per-group recent messages, both decorated with the viewer's persisted
// aliases and favorites.
type DirectoryService struct {
	records  repository.MessageRecordRepositoryInterface
	sessions repository.SessionRepositoryInterface
	resolver *GroupResolver
	runtime  *config.Runtime
	groups   *cache.GroupCache
	recents  *cache.RecentCache
}

func NewDirectoryService(
	records repository.MessageRecordRepositoryInterface,
	sessions repository.SessionRepositoryInterface,
	resolver *GroupResolver,
	runtime *config.Runtime,
	groups *cache.GroupCache,
	recents *cache.RecentCache,
) *DirectoryService {
	return &DirectoryService{
		records:  records,
		sessions: sessions,
		resolver: resolver,
		runtime:  runtime,
		groups:   groups,
		recents:  recents,
	}
}

// ListGroups returns every known group keyed by its newest session id.
// The store scan is cached; aliases and favorites are merged fresh on every
// call so edits show up immediately.
func (s *DirectoryService) ListGroups() ([]models.GroupEntry, error) {
	rows, ok := s.groups.GetDirectory()
	if !ok {
		var err error
		rows, err = s.sessions.ListGroups()
		if err != nil {
			return nil, err
		}
		_ = s.groups.SetDirectory(rows)
	}

	snap := s.runtime.Snapshot()
	entries := make([]models.GroupEntry, 0, len(rows))
	for _, row := range rows {
		s.resolver.PrimeID(row.SessionID, row.GroupID)
		entries = append(entries, models.GroupEntry{
			ID:         strconv.FormatInt(row.SessionID, 10),
			GroupID:    row.GroupID,
			Alias:      snap.GroupAliases[row.GroupID],
			IsFavorite: lo.Contains(snap.FavoriteGroups, row.GroupID),
		})
	}

	return entries, nil
}

// RecentMessages returns the latest text messages of the group addressed by
// sessionID, oldest first, with speaker labels stripped.
func (s *DirectoryService) RecentMessages(sessionID string, limit int) ([]models.RecentMessage, error) {
	sessionID = validation.NormalizeSessionID(sessionID)
	if !validation.ValidateSessionID(sessionID) {
		return nil, ErrInvalidSessionID
	}

	groupID, ok := s.resolver.Resolve(sessionID)
	if !ok {
		return nil, ErrGroupNotFound
	}

	rows, ok := s.recents.GetRecent(groupID)
	if !ok {
		var err error
		rows, err = s.records.RecentByGroup(groupID, limit)
		if err != nil {
			return nil, err
		}
		_ = s.recents.SetRecent(groupID, rows)
	}

	messages := make([]models.RecentMessage, 0, len(rows))
	for _, row := range rows {
		s.resolver.PrimeID(row.SessionID, row.GroupID)
		messages = append(messages, models.RecentMessage{
			Type:      "danmaku",
			Content:   validation.NormalizeContent(row.PlainText),
			UserID:    row.UserID,
			GroupID:   row.GroupID,
			SessionID: strconv.FormatInt(row.SessionID, 10),
			Time:      row.Time,
		})
	}

	return messages, nil
}
