package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// run holds the state of a single request. It is never shared.
type run struct {
	ctx       context.Context
	o         *Orchestrator
	id        string
	modelType model.ModelType
	trace     []Stage
	started   time.Time
	stageAt   time.Time
	logger    *slog.Logger
}

func (o *Orchestrator) newRun(ctx context.Context, req model.Request) *run {
	id := o.runIDs()
	return &run{
		ctx:       ctx,
		o:         o,
		id:        id,
		modelType: req.ModelType,
		trace:     make([]Stage, 0, len(Stages())+1),
		started:   o.now(),
		logger:    o.logger.With(slog.String("run_id", id)),
	}
}

func (r *run) enter(stage Stage) {
	r.trace = append(r.trace, stage)
	r.stageAt = r.o.now()
	r.logger.Debug("stage started", slog.String("stage", stage.String()))
}

func (r *run) finish(stage Stage, err error) {
	elapsed := r.o.now().Sub(r.stageAt)
	r.o.observers.StageFinished(r.ctx, StageEvent{
		RunID:     r.id,
		ModelType: r.modelType,
		Stage:     stage,
		Duration:  elapsed,
		Err:       err,
	})
	if err == nil {
		r.logger.Debug("stage finished",
			slog.String("stage", stage.String()),
			slog.String("model_type", string(r.modelType)),
			slog.Duration("duration", elapsed),
		)
	}
}

func (r *run) fail(stage Stage, err error) error {
	r.finish(stage, err)
	r.trace = append(r.trace, StageFailed)

	kind := model.KindOf(err)
	r.logger.Warn("run failed",
		slog.String("stage", stage.String()),
		slog.String("model_type", string(r.modelType)),
		slog.String("kind", string(kind)),
		slog.Any("err", err),
	)
	r.o.observers.RunFinished(r.ctx, RunEvent{
		RunID:       r.id,
		ModelType:   r.modelType,
		Outcome:     StageFailed,
		FailedStage: stage,
		Kind:        kind,
		Duration:    r.o.now().Sub(r.started),
	})

	return &StageError{
		RunID: r.id,
		Stage: stage,
		Trace: r.traceCopy(),
		Err:   err,
	}
}

func (r *run) succeed() {
	r.trace = append(r.trace, StageRendered)
	elapsed := r.o.now().Sub(r.started)
	r.logger.Debug("run rendered",
		slog.String("model_type", string(r.modelType)),
		slog.Duration("duration", elapsed),
	)
	r.o.observers.RunFinished(r.ctx, RunEvent{
		RunID:     r.id,
		ModelType: r.modelType,
		Outcome:   StageRendered,
		Duration:  elapsed,
	})
}

func (r *run) traceCopy() []Stage {
	out := make([]Stage, len(r.trace))
	copy(out, r.trace)
	return out
}
