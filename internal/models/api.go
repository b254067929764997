package models

import (
	"time"
)

// GroupEntry is one row of the group directory response. ID is the session
// id clients use to address the group in filter commands.
type GroupEntry struct {
	ID         string `json:"id"`
	GroupID    string `json:"group_id"`
	Alias      string `json:"alias,omitempty"`
	IsFavorite bool   `json:"favorite"`
}

// RecentMessage is one row of the recent-messages response, shaped like a
// danmaku frame plus the session id it was read through.
type RecentMessage struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	GroupID   string    `json:"group_id"`
	SessionID string    `json:"session_id"`
	Time      time.Time `json:"time"`
}
