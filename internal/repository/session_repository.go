package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/models"
)

// GroupRow pairs a group id with the newest session row recorded for it.
// Clients address groups through that session id.
type GroupRow struct {
	SessionID int64  `gorm:"column:session_id"`
	GroupID   string `gorm:"column:group_id"`
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// GroupIDBySession resolves a session row id to its group id. No level filter
// here: callers decide what a non-group session's empty id2 means.
func (r *SessionRepository) GroupIDBySession(sessionID int64) (string, error) {
	var session models.SessionModel
	err := r.db.Select("id2").First(&session, sessionID).Error
	if err != nil {
		return "", err
	}

	return session.ID2, nil
}

// ListGroups returns one row per known group, keyed by the highest session id
// seen for that group, ordered by group id.
func (r *SessionRepository) ListGroups() ([]GroupRow, error) {
	query := strings.TrimSpace(`
SELECT DISTINCT ON (s.id2)
	s.id AS session_id,
	s.id2 AS group_id
FROM ` + models.SessionTable + ` s
WHERE s.level = ?
ORDER BY s.id2 ASC, s.id DESC
`)

	var rows []GroupRow
	err := r.db.Raw(query, models.SessionLevelGroup).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
