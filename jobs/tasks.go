package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/tradeflow/tradeflow/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLicenseScan raises license expiration reminders.
	TaskLicenseScan = "license:scan"
	// TaskPDFArchive renders a document and uploads it to archive storage.
	TaskPDFArchive = "pdf:archive"
)

const dateLayout = "2006-01-02"

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// LicenseScanPayload optionally pins the scan date; empty means today (UTC).
type LicenseScanPayload struct {
	Date string `json:"date,omitempty"`
}

// Day resolves the scan date.
func (p LicenseScanPayload) Day(now time.Time) (time.Time, error) {
	if p.Date == "" {
		return now.UTC(), nil
	}
	d, err := time.Parse(dateLayout, p.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("license scan date: %w", err)
	}
	return d, nil
}

// NewLicenseScanTask constructs an Asynq task. A zero day scans as of the
// day the task runs.
func NewLicenseScanTask(day time.Time) (*asynq.Task, error) {
	payload := LicenseScanPayload{}
	if !day.IsZero() {
		payload.Date = day.UTC().Format(dateLayout)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLicenseScan, data), nil
}

// ArchivePayload identifies the document to archive and its owner.
type ArchivePayload struct {
	UserID uuid.UUID `json:"user_id"`
	Type   string    `json:"type"`
	ID     uuid.UUID `json:"id"`
}

// NewArchiveTask constructs an Asynq task.
func NewArchiveTask(payload ArchivePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPDFArchive, data, asynq.MaxRetry(5), asynq.Timeout(2*time.Minute)), nil
}
