package pipeline

import (
	"context"
	"time"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// StageEvent describes one finished stage.
type StageEvent struct {
	RunID     string
	ModelType model.ModelType
	Stage     Stage
	Duration  time.Duration
	Err       error
}

// RunEvent describes a run that reached a terminal stage.
type RunEvent struct {
	RunID     string
	ModelType model.ModelType
	// Outcome is StageRendered or StageFailed.
	Outcome Stage
	// FailedStage is empty on success.
	FailedStage Stage
	Kind        model.Kind
	Duration    time.Duration
}

// Observer receives lifecycle notifications. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	StageFinished(ctx context.Context, event StageEvent)
	RunFinished(ctx context.Context, event RunEvent)
}

// Observers fans notifications out to each non-nil observer in order.
type Observers []Observer

func (o Observers) StageFinished(ctx context.Context, event StageEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.StageFinished(ctx, event)
		}
	}
}

func (o Observers) RunFinished(ctx context.Context, event RunEvent) {
	for _, obs := range o {
		if obs != nil {
			obs.RunFinished(ctx, event)
		}
	}
}
