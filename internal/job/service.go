package job

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/billsnap/internal/ai"
)

// ErrJobNotFound is returned when a job does not exist or belongs to
// another user.
var ErrJobNotFound = errors.New("job not found")

// analysisTimeout bounds the background work for one receipt analysis
const analysisTimeout = 5 * time.Minute

// ReceiptCreator persists an AI extraction as a receipt. Implemented by
// the receipt service.
type ReceiptCreator interface {
	CreateFromExtraction(ctx context.Context, userID int64, extraction *ai.ReceiptExtraction, receiptURL string) (int64, error)
}

// Service creates analysis jobs and runs them in the background.
// Clients poll GET /jobs/{id} for progress and the resulting receipt ID.
type Service struct {
	repo     *Repository
	analyzer ai.Analyzer
	receipts ReceiptCreator
}

// NewService creates a new job service with dependencies injected
func NewService(repo *Repository, analyzer ai.Analyzer, receipts ReceiptCreator) *Service {
	return &Service{repo: repo, analyzer: analyzer, receipts: receipts}
}

// GetByID retrieves a job owned by the user
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*Job, error) {
	j, err := s.repo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrJobNotFound
	}
	return j, nil
}

// EnqueueAnalysis records a pending analysis job and starts a worker
// goroutine for it. The image bytes are captured by the worker; the
// caller may discard its copy.
func (s *Service) EnqueueAnalysis(ctx context.Context, userID int64, image []byte, contentType, receiptURL string) (*Job, error) {
	correlationID := uuid.NewString()

	j, err := s.repo.Create(ctx, userID, TypeReceiptAnalysis, correlationID)
	if err != nil {
		return nil, err
	}

	go s.runAnalysis(j.ID, userID, correlationID, image, contentType, receiptURL)

	return j, nil
}

// runAnalysis drives one job from RUNNING to a terminal state. It uses
// its own context so the work survives the originating HTTP request.
func (s *Service) runAnalysis(jobID, userID int64, correlationID string, image []byte, contentType, receiptURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	log := slog.With("job_id", jobID, "user_id", userID, "correlation_id", correlationID)

	if err := s.repo.Start(ctx, jobID); err != nil {
		log.Error("failed to start analysis job", "error", err)
		return
	}
	log.Info("receipt analysis started")

	extraction, err := s.analyzer.AnalyzeReceipt(ctx, image, contentType)
	if err != nil {
		log.Error("receipt analysis failed", "error", err)
		s.fail(ctx, jobID, ErrCodeAnalysisFailed, err.Error(), log)
		return
	}

	if err := s.repo.SetProgress(ctx, jobID, 70); err != nil {
		log.Warn("failed to update job progress", "error", err)
	}

	receiptID, err := s.receipts.CreateFromExtraction(ctx, userID, extraction, receiptURL)
	if err != nil {
		log.Error("failed to save analyzed receipt", "error", err)
		s.fail(ctx, jobID, ErrCodeSaveFailed, err.Error(), log)
		return
	}

	if err := s.repo.Succeed(ctx, jobID, receiptID); err != nil {
		log.Error("failed to mark job succeeded", "error", err)
		return
	}
	log.Info("receipt analysis succeeded", "receipt_id", receiptID, "items_count", len(extraction.Items))
}

func (s *Service) fail(ctx context.Context, jobID int64, code, message string, log *slog.Logger) {
	if err := s.repo.Fail(ctx, jobID, code, message); err != nil {
		log.Error("failed to mark job failed", "error", err)
	}
}
