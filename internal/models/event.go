package models

import (
	"time"
)

// DanmakuEvent is the normalized form of one newly discovered chat message,
// ready for fan-out. It is immutable once built: a change feed constructs
// exactly one event per discovered row and nothing downstream mutates it.
type DanmakuEvent struct {
	GroupID   string
	UserID    string
	Content   string
	MessageID string
	Time      time.Time
}

// DanmakuFrame is the wire shape sent to viewers for one event.
type DanmakuFrame struct {
	Type      string    `json:"type"`
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	MessageID string    `json:"message_id"`
	Time      time.Time `json:"time"`
}

func (e DanmakuEvent) ToFrame() DanmakuFrame {
	return DanmakuFrame{
		Type:      "danmaku",
		GroupID:   e.GroupID,
		UserID:    e.UserID,
		Content:   e.Content,
		MessageID: e.MessageID,
		Time:      e.Time,
	}
}
