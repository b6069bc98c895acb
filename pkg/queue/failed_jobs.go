package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FailedJobRecord is the GORM model persisted to the database.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "inbox_failed_jobs" }

// failedJobDB is the optional DB backend for persisting failed jobs.
// Set via UseDB() — nil means in-memory only.
var failedJobDB *gorm.DB

// UseDB configures the queue to persist failed jobs to the database.
// Call once at boot, after the DB connection is established:
//
//	queue.UseDB(db)
func UseDB(db *gorm.DB) {
	failedJobDB = db
	// Auto-create the table if it doesn't exist.
	db.AutoMigrate(&FailedJobRecord{})
}

// persistFailed writes a failed job record to the database (if configured)
// and also appends to the in-memory slice as a fallback.
func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	m.mu.Unlock()

	if failedJobDB == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": "could not marshal: %v"}`, err))
	}

	record := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	if err := failedJobDB.Create(&record).Error; err != nil {
		// Non-fatal — the in-memory slice still has it.
		fmt.Printf("queue: failed to persist failed job %s: %v\n", typeName, err)
	}
}
