package job

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles job data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new job repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const jobColumns = `id, user_id, job_type, status, progress, correlation_id, error_code, error_message, receipt_id, started_at, finished_at, created_at`

func scanJob(row *sql.Row) (*Job, error) {
	j := &Job{}
	err := row.Scan(
		&j.ID,
		&j.UserID,
		&j.JobType,
		&j.Status,
		&j.Progress,
		&j.CorrelationID,
		&j.ErrorCode,
		&j.ErrorMessage,
		&j.ReceiptID,
		&j.StartedAt,
		&j.FinishedAt,
		&j.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}
	return j, nil
}

// Create inserts a pending job
func (r *Repository) Create(ctx context.Context, userID int64, jobType, correlationID string) (*Job, error) {
	query := fmt.Sprintf(`
		INSERT INTO jobs (user_id, job_type, status, progress, correlation_id)
		VALUES ($1, $2, $3, 0, $4)
		RETURNING %s
	`, jobColumns)

	j, err := scanJob(r.db.QueryRowContext(ctx, query, userID, jobType, StatusPending, correlationID))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return j, nil
}

// GetByIDAndUser retrieves a job owned by the user. Returns nil when not found.
func (r *Repository) GetByIDAndUser(ctx context.Context, id, userID int64) (*Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1 AND user_id = $2`, jobColumns)
	return scanJob(r.db.QueryRowContext(ctx, query, id, userID))
}

// Start marks a job as running
func (r *Repository) Start(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = $2, progress = 10, started_at = NOW() WHERE id = $1
	`, id, StatusRunning)
	if err != nil {
		return fmt.Errorf("failed to start job: %w", err)
	}
	return nil
}

// SetProgress updates the job's progress, clamped to 0-100
func (r *Repository) SetProgress(ctx context.Context, id int64, progress int) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	_, err := r.db.ExecContext(ctx, `UPDATE jobs SET progress = $2 WHERE id = $1`, id, progress)
	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}
	return nil
}

// Succeed marks a job as succeeded and records the produced receipt
func (r *Repository) Succeed(ctx context.Context, id, receiptID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = $2, progress = 100, receipt_id = $3, finished_at = NOW() WHERE id = $1
	`, id, StatusSucceeded, receiptID)
	if err != nil {
		return fmt.Errorf("failed to mark job succeeded: %w", err)
	}
	return nil
}

// Fail marks a job as failed with an error code and message
func (r *Repository) Fail(ctx context.Context, id int64, code, message string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = $2, error_code = $3, error_message = $4, finished_at = NOW() WHERE id = $1
	`, id, StatusFailed, code, message)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}
