package pipeline

import (
	"context"
	"time"

	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/google/uuid"
)

// memoryStorage keeps nothing. It is used when no database is configured.
type memoryStorage struct{}

func (memoryStorage) StartRun(_ context.Context, startedAt time.Time) (*models.Run, error) {
	return &models.Run{ID: uuid.New(), StartedAt: startedAt}, nil
}

func (memoryStorage) ReplaceListings(_ context.Context, _ uuid.UUID, ds models.Dataset) (int32, error) {
	return int32(len(ds)), nil
}

func (memoryStorage) FinishRun(context.Context, *models.Run) error {
	return nil
}

type nopNotifier struct{}

func (nopNotifier) RunFinished(context.Context, models.Run) error {
	return nil
}
