package repository

import (
	"time"
)

// MessageRecordRepositoryInterface defines the contract for reading appended
// chat message rows from the recorder database.
type MessageRecordRepositoryInterface interface {
	MaxTimestamp() (*time.Time, error)
	FindNewerThan(since time.Time) ([]MessageRow, error)
	FindMessageByID(id int64) (*MessageRow, error)
	RecentByGroup(groupID string, limit int) ([]MessageRow, error)
}

// SessionRepositoryInterface defines the contract for session lookups.
type SessionRepositoryInterface interface {
	GroupIDBySession(sessionID int64) (string, error)
	ListGroups() ([]GroupRow, error)
}
