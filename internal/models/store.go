package models

import (
	"time"
)

// Table names of the external chat-recorder schema. The recorder bot owns
// these tables; this service only ever reads them, so there is no
// AutoMigrate anywhere in the codebase.
const (
	SessionTable       = "nonebot_plugin_session_orm_sessionmodel"
	MessageRecordTable = "nonebot_plugin_chatrecorder_messagerecord"
)

// Session levels used by the recorder. Level 2 sessions are group chats;
// their ID1 holds the sender's user id and ID2 the group id.
const (
	SessionLevelPrivate = 1
	SessionLevelGroup   = 2
)

// RecordTypeMessage marks rows that carry an actual chat message (the
// recorder also stores notices and recalls under other types).
const RecordTypeMessage = "message"

// SessionModel mirrors one conversation record of the recorder bot. A group
// can accumulate several session rows over time (one per bot account), all
// sharing the same ID2.
type SessionModel struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	BotID    string `gorm:"column:bot_id"`
	BotType  string `gorm:"column:bot_type"`
	Platform string `gorm:"column:platform"`
	Level    int    `gorm:"column:level"`
	ID1      string `gorm:"column:id1"`
	ID2      string `gorm:"column:id2"`
	ID3      string `gorm:"column:id3"`
}

func (SessionModel) TableName() string { return SessionTable }

// MessageRecord mirrors one appended chat message row. Time is stored in
// UTC by the recorder. The raw segmented `message` JSON column is not
// mapped: the relay only ever uses the flattened plain text.
type MessageRecord struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	SessionPersistID int64     `gorm:"column:session_persist_id"`
	Time             time.Time `gorm:"column:time"`
	Type             string    `gorm:"column:type"`
	MessageID        string    `gorm:"column:message_id"`
	PlainText        string    `gorm:"column:plain_text"`
}

func (MessageRecord) TableName() string { return MessageRecordTable }
