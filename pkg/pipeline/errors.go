package pipeline

import (
	"fmt"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// StageError is returned when a run ends in StageFailed.
type StageError struct {
	RunID string
	// Stage is the stage that failed.
	Stage Stage
	// Trace holds every stage entered, ending with StageFailed.
	Trace []Stage
	Err   error
}

func (e *StageError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("pipeline: run %s failed at %s: %v", e.RunID, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Kind is the error kind of the underlying failure.
func (e *StageError) Kind() model.Kind {
	if e == nil {
		return ""
	}
	return model.KindOf(e.Err)
}
