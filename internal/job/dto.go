package job

import "time"

// JobResponse represents a job in API responses
type JobResponse struct {
	ID           int64   `json:"id"`
	JobType      string  `json:"job_type"`
	Status       string  `json:"status"`
	Progress     int     `json:"progress"`
	ReceiptID    *int64  `json:"receipt_id,omitempty"`
	ErrorCode    *string `json:"error_code,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
	StartedAt    string  `json:"started_at,omitempty"`
	FinishedAt   string  `json:"finished_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// ToResponse converts a Job model to a JobResponse DTO
func (j *Job) ToResponse() *JobResponse {
	resp := &JobResponse{
		ID:           j.ID,
		JobType:      j.JobType,
		Status:       j.Status,
		Progress:     j.Progress,
		ReceiptID:    j.ReceiptID,
		ErrorCode:    j.ErrorCode,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt.UTC().Format(time.RFC3339),
	}
	if j.StartedAt != nil {
		resp.StartedAt = j.StartedAt.UTC().Format(time.RFC3339)
	}
	if j.FinishedAt != nil {
		resp.FinishedAt = j.FinishedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
