// Package notifier announces finished market runs to other services.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/samber/lo"
)

//go:generate mockery --name Sender --filename sender.go

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// RunNotifier sends RunFinished events.
type RunNotifier struct {
	sender Sender
}

// NewRunNotifier returns new RunNotifier using provided sender for sending messages.
func NewRunNotifier(sender Sender) RunNotifier {
	return RunNotifier{
		sender: sender,
	}
}

// RunFinished sends RunFinished event of the run.
func (n RunNotifier) RunFinished(ctx context.Context, run models.Run) error {
	event := RunFinished{
		RunID:         run.ID,
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
		Success:       lo.FromPtr(run.IsSuccess),
		StatusMessage: lo.FromPtr(run.StatusMessage),
		Listings:      lo.FromPtr(run.Listings),
		Dropped:       lo.FromPtr(run.Dropped),
		Sources: lo.Map(run.Diagnostics.Sources, func(src models.SourceDiagnostics, _ int) SourceCounts {
			return SourceCounts{
				Source:      src.Source,
				Raw:         src.Raw,
				Accepted:    src.Accepted,
				Dropped:     src.DroppedTotal(),
				Unavailable: src.Unavailable != "",
			}
		}),
	}

	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("can't marshal run finished event: %w", err)
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("can't send run finished event: %w", err)
	}

	return nil
}
