package queue

import (
	"time"

	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"gorm.io/gorm"
)

// FailedJobRecord is a job that exhausted its retries. The table is created
// by the failed_jobs migration.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

// UseDB persists failed jobs to db in addition to the in-memory list.
func (m *Manager) UseDB(db *gorm.DB) {
	m.mu.Lock()
	m.db = db
	m.mu.Unlock()
}

func (m *Manager) persistFailed(typeName string, payload []byte, lastErr error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Type: typeName, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	db := m.db
	m.mu.Unlock()

	if db == nil {
		return
	}

	record := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Attempts: attempts,
		FailedAt: time.Now(),
	}
	if lastErr != nil {
		record.Error = lastErr.Error()
	}
	if err := db.Create(&record).Error; err != nil {
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}
