package pipeline

import (
	"testing"
	"time"

	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/stretchr/testify/assert"
)

func TestUnitSystemClockNow(t *testing.T) {
	now := systemClock{}.Now()

	assert.InDelta(
		t,
		time.Now().UTC().UnixMilli(),
		now.UnixMilli(),
		float64(50*time.Millisecond),
		"should return current timestamp",
	)
	assert.Equal(t, time.UTC, now.Location(), "should return UTC time")
}

func TestUnitMemoryStorage(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	run, err := memoryStorage{}.StartRun(t.Context(), started)
	assert.NoError(t, err)
	assert.NotZero(t, run.ID, "should generate run id")
	assert.Equal(t, started, run.StartedAt)

	stored, err := memoryStorage{}.ReplaceListings(t.Context(), run.ID, make([]models.Listing, 3))
	assert.NoError(t, err)
	assert.Equal(t, int32(3), stored)

	assert.NoError(t, memoryStorage{}.FinishRun(t.Context(), run))
}
