package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToResponseTimestampsInUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	started := time.Date(2026, 8, 28, 1, 0, 0, 0, est)
	finished := time.Date(2026, 8, 28, 1, 2, 30, 0, est)

	j := &Job{
		ID:         9,
		JobType:    TypeReceiptAnalysis,
		Status:     StatusSucceeded,
		Progress:   100,
		StartedAt:  &started,
		FinishedAt: &finished,
		CreatedAt:  time.Date(2026, 8, 28, 0, 59, 0, 0, est),
	}

	resp := j.ToResponse()

	assert.Equal(t, "2026-08-28T05:59:00Z", resp.CreatedAt)
	assert.Equal(t, "2026-08-28T06:00:00Z", resp.StartedAt)
	assert.Equal(t, "2026-08-28T06:02:30Z", resp.FinishedAt)
}

func TestToResponseOmitsUnsetTimes(t *testing.T) {
	j := &Job{
		ID:        1,
		JobType:   TypeReceiptAnalysis,
		Status:    StatusPending,
		CreatedAt: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}

	resp := j.ToResponse()

	assert.Empty(t, resp.StartedAt)
	assert.Empty(t, resp.FinishedAt)
}
