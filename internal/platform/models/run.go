package models

import (
	"time"

	"github.com/google/uuid"
)

// Run is one batch run of the pipeline.
type Run struct {
	ID            uuid.UUID
	StartedAt     time.Time
	FinishedAt    *time.Time
	IsSuccess     *bool
	StatusMessage *string
	Listings      *int32
	Dropped       *int32
	Diagnostics   Diagnostics
}
