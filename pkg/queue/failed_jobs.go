package queue

import (
	"encoding/json"
	"time"

	"github.com/nikhilverma/shopline/pkg/database"
	"github.com/nikhilverma/shopline/pkg/logger"
)

// FailedJobRecord persists an exhausted job so it can be inspected and
// retried from the CLI.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	JobType  string    `gorm:"size:255;index" json:"job_type"`
	Payload  string    `gorm:"type:text" json:"payload"`
	Error    string    `gorm:"type:text" json:"error"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

func (FailedJobRecord) TableName() string { return "shopline_failed_jobs" }

func (m *Manager) persistFailed(job Job, typeName string, err error, attempts int) {
	fj := FailedJob{Job: job, Err: err, FailedAt: time.Now(), Attempts: attempts}

	m.mu.Lock()
	m.failed = append(m.failed, fj)
	m.mu.Unlock()

	if database.DB == nil {
		return
	}

	payload, merr := json.Marshal(job)
	if merr != nil {
		payload = []byte("{}")
	}

	rec := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    err.Error(),
		Attempts: attempts,
		FailedAt: fj.FailedAt,
	}
	if derr := database.DB.Create(&rec).Error; derr != nil {
		logger.Error("queue: persist failed job", "error", derr)
	}
}

// RetryFailed re-dispatches every persisted failed job and removes the
// records that were successfully requeued.
func RetryFailed() (int, error) {
	if database.DB == nil {
		return 0, nil
	}

	var records []FailedJobRecord
	if err := database.DB.Find(&records).Error; err != nil {
		return 0, err
	}

	retried := 0
	for _, rec := range records {
		defaultManager.mu.RLock()
		factory, ok := defaultManager.registry[rec.JobType]
		defaultManager.mu.RUnlock()
		if !ok {
			continue
		}

		job := factory()
		if err := json.Unmarshal([]byte(rec.Payload), job); err != nil {
			continue
		}
		if err := Dispatch(job); err != nil {
			continue
		}
		database.DB.Delete(&FailedJobRecord{}, rec.ID)
		retried++
	}
	return retried, nil
}
