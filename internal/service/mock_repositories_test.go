package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
)

// MockSessionRepository is a mock implementation of SessionRepositoryInterface for testing
type MockSessionRepository struct {
	groupsBySession map[int64]string
	directory       []repository.GroupRow
	lookupCount     int
	failLookups     bool
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		groupsBySession: make(map[int64]string),
	}
}

func (m *MockSessionRepository) GroupIDBySession(sessionID int64) (string, error) {
	m.lookupCount++
	if m.failLookups {
		return "", errors.New("connection refused")
	}
	groupID, ok := m.groupsBySession[sessionID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return groupID, nil
}

func (m *MockSessionRepository) ListGroups() ([]repository.GroupRow, error) {
	if m.failLookups {
		return nil, errors.New("connection refused")
	}
	return m.directory, nil
}

// MockMessageRecordRepository is a mock implementation of MessageRecordRepositoryInterface for testing
type MockMessageRecordRepository struct {
	rows      []repository.MessageRow
	failReads bool
}

func NewMockMessageRecordRepository() *MockMessageRecordRepository {
	return &MockMessageRecordRepository{}
}

func (m *MockMessageRecordRepository) MaxTimestamp() (*time.Time, error) {
	if m.failReads {
		return nil, errors.New("connection refused")
	}
	if len(m.rows) == 0 {
		return nil, nil
	}
	max := m.rows[0].Time
	for _, row := range m.rows[1:] {
		if row.Time.After(max) {
			max = row.Time
		}
	}
	return &max, nil
}

func (m *MockMessageRecordRepository) FindNewerThan(since time.Time) ([]repository.MessageRow, error) {
	if m.failReads {
		return nil, errors.New("connection refused")
	}
	var result []repository.MessageRow
	for _, row := range m.rows {
		if row.Time.After(since) {
			result = append(result, row)
		}
	}
	return result, nil
}

func (m *MockMessageRecordRepository) FindMessageByID(id int64) (*repository.MessageRow, error) {
	if m.failReads {
		return nil, errors.New("connection refused")
	}
	for _, row := range m.rows {
		if row.ID == id {
			r := row
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRecordRepository) RecentByGroup(groupID string, limit int) ([]repository.MessageRow, error) {
	if m.failReads {
		return nil, errors.New("connection refused")
	}
	if limit <= 0 {
		limit = 20
	}
	var result []repository.MessageRow
	for _, row := range m.rows {
		if row.GroupID == groupID {
			result = append(result, row)
		}
	}
	if len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}
