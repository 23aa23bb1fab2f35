package notifier

import (
	"time"

	"github.com/google/uuid"
)

// RunFinished is event published after every batch run.
type RunFinished struct {
	RunID         uuid.UUID      `json:"runId"`
	StartedAt     time.Time      `json:"startedAt"`
	FinishedAt    *time.Time     `json:"finishedAt,omitempty"`
	Success       bool           `json:"success"`
	StatusMessage string         `json:"statusMessage,omitempty"`
	Listings      int32          `json:"listings"`
	Dropped       int32          `json:"dropped"`
	Sources       []SourceCounts `json:"sources"`
}

// SourceCounts are row counts of one retailer.
type SourceCounts struct {
	Source      string `json:"source"`
	Raw         int    `json:"raw"`
	Accepted    int    `json:"accepted"`
	Dropped     int    `json:"dropped"`
	Unavailable bool   `json:"unavailable,omitempty"`
}
