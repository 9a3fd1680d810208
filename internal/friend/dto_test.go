package friend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToResponseTimestampsInUTC(t *testing.T) {
	kl := time.FixedZone("MYT", 8*60*60)
	f := &Friend{
		ID:        3,
		UserID:    7,
		Name:      "Amin",
		CreatedAt: time.Date(2026, 8, 28, 20, 30, 0, 0, kl),
	}

	resp := f.ToResponse()

	// 20:30 +08:00 is 12:30 UTC; the zone must be converted, not relabeled.
	assert.Equal(t, "2026-08-28T12:30:00Z", resp.CreatedAt)
}
