package feed

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
)

// MockRecordsRepository is a mock implementation of MessageRecordRepositoryInterface for testing
type MockRecordsRepository struct {
	rows []repository.MessageRow

	maxOverride   *time.Time
	failReads     bool
	newerThanArgs []time.Time
}

func NewMockRecordsRepository() *MockRecordsRepository {
	return &MockRecordsRepository{}
}

func (m *MockRecordsRepository) MaxTimestamp() (*time.Time, error) {
	if m.failReads {
		return nil, errors.New("connection refused")
	}
	if m.maxOverride != nil {
		return m.maxOverride, nil
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

func (m *MockRecordsRepository) FindNewerThan(since time.Time) ([]repository.MessageRow, error) {
	m.newerThanArgs = append(m.newerThanArgs, since)
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

func (m *MockRecordsRepository) FindMessageByID(id int64) (*repository.MessageRow, error) {
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

func (m *MockRecordsRepository) RecentByGroup(groupID string, limit int) ([]repository.MessageRow, error) {
	if m.failReads {
		return nil, errors.New("connection refused")
	}
	var result []repository.MessageRow
	for _, row := range m.rows {
		if row.GroupID == groupID {
			result = append(result, row)
		}
	}
	return result, nil
}
