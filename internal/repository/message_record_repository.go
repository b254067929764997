package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/models"
)

// MessageRow is a denormalized row joining a message record with its session,
// carrying everything needed to build one danmaku event.
//
// NOTE: This is deliberately not the full models.MessageRecord / models.SessionModel
// shape; the raw segmented message JSON never leaves the database.
type MessageRow struct {
	ID        int64     `gorm:"column:id"`
	Time      time.Time `gorm:"column:time"`
	MessageID string    `gorm:"column:message_id"`
	PlainText string    `gorm:"column:plain_text"`
	SessionID int64     `gorm:"column:session_id"`
	UserID    string    `gorm:"column:user_id"`
	GroupID   string    `gorm:"column:group_id"`
}

type MessageRecordRepository struct {
	db *gorm.DB
}

func NewMessageRecordRepository(db *gorm.DB) *MessageRecordRepository {
	return &MessageRecordRepository{db: db}
}

const messageRowColumns = `
	m.id,
	m.time,
	m.message_id,
	m.plain_text,
	s.id AS session_id,
	s.id1 AS user_id,
	s.id2 AS group_id`

// MaxTimestamp returns the time of the newest row in the record table, or nil
// when the table is empty. The feed uses it to seed and sanity-check its
// watermark without trusting the local clock.
func (r *MessageRecordRepository) MaxTimestamp() (*time.Time, error) {
	var row struct {
		MaxTime *time.Time `gorm:"column:max_time"`
	}
	err := r.db.
		Table(models.MessageRecordTable).
		Select("MAX(time) AS max_time").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return row.MaxTime, nil
}

// FindNewerThan returns every group-chat message row strictly newer than
// since, oldest first. Ties on time are broken by row id so repeated calls
// see a stable order.
func (r *MessageRecordRepository) FindNewerThan(since time.Time) ([]MessageRow, error) {
	query := strings.TrimSpace(`
SELECT` + messageRowColumns + `
FROM ` + models.MessageRecordTable + ` m
JOIN ` + models.SessionTable + ` s ON s.id = m.session_persist_id
WHERE
	m.time > ?
	AND m.type = ?
	AND m.plain_text <> ''
	AND s.level = ?
ORDER BY m.time ASC, m.id ASC
`)

	var rows []MessageRow
	err := r.db.Raw(query, since, models.RecordTypeMessage, models.SessionLevelGroup).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// FindMessageByID fetches a single group-chat message row by its record id.
// Returns gorm.ErrRecordNotFound when the row does not exist, is not a plain
// text message, or does not belong to a group session.
func (r *MessageRecordRepository) FindMessageByID(id int64) (*MessageRow, error) {
	query := strings.TrimSpace(`
SELECT` + messageRowColumns + `
FROM ` + models.MessageRecordTable + ` m
JOIN ` + models.SessionTable + ` s ON s.id = m.session_persist_id
WHERE
	m.id = ?
	AND m.type = ?
	AND m.plain_text <> ''
	AND s.level = ?
LIMIT 1
`)

	var rows []MessageRow
	err := r.db.Raw(query, id, models.RecordTypeMessage, models.SessionLevelGroup).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &rows[0], nil
}

// RecentByGroup returns the latest text messages of a group across all of its
// session rows, in chronological order.
func (r *MessageRecordRepository) RecentByGroup(groupID string, limit int) ([]MessageRow, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := strings.TrimSpace(`
SELECT` + messageRowColumns + `
FROM ` + models.MessageRecordTable + ` m
JOIN ` + models.SessionTable + ` s ON s.id = m.session_persist_id
WHERE
	s.id2 = ?
	AND s.level = ?
	AND m.type = ?
	AND m.plain_text <> ''
ORDER BY m.time DESC, m.id DESC
LIMIT ?
`)

	var rows []MessageRow
	err := r.db.Raw(query, groupID, models.SessionLevelGroup, models.RecordTypeMessage, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	return rows, nil
}
