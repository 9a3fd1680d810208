package job

import "time"

// Job types
const (
	TypeReceiptAnalysis = "RECEIPT_ANALYSIS"
)

// Job statuses. A job moves PENDING -> RUNNING -> SUCCEEDED or FAILED.
const (
	StatusPending   = "PENDING"
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
)

// Error codes recorded on failed jobs
const (
	ErrCodeAnalysisFailed = "ANALYSIS_FAILED"
	ErrCodeSaveFailed     = "SAVE_FAILED"
)

// Job tracks one unit of background work, currently receipt analysis
type Job struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	JobType       string     `json:"job_type"`
	Status        string     `json:"status"`
	Progress      int        `json:"progress"`
	CorrelationID string     `json:"correlation_id"`
	ErrorCode     *string    `json:"error_code,omitempty"`
	ErrorMessage  *string    `json:"error_message,omitempty"`
	ReceiptID     *int64     `json:"receipt_id,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Done reports whether the job reached a terminal state
func (j *Job) Done() bool {
	return j.Status == StatusSucceeded || j.Status == StatusFailed
}
