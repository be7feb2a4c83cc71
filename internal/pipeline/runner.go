package pipeline

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/doxyfx/internal/metrics"
	"git.home.luguber.info/inful/doxyfx/internal/observability"
)

// Stage is one named step of a run.
type Stage struct {
	Name string
	Fn   func(ctx context.Context, st *State) error
}

// Run executes stages in order, recording timing and stopping on the first
// error. Stage functions observe ctx for cancellation.
func Run(ctx context.Context, st *State, stages []Stage, rec metrics.Recorder) error {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	runStart := time.Now()
	ctx = observability.WithRunID(ctx, st.RunID)

	for _, stage := range stages {
		select {
		case <-ctx.Done():
			rec.IncStageResult(stage.Name, metrics.ResultCanceled)
			rec.IncRunOutcome("canceled")
			return ctx.Err()
		default:
		}

		stageCtx := observability.WithStage(ctx, stage.Name)
		observability.DebugContext(stageCtx, "Stage starting")

		t0 := time.Now()
		err := stage.Fn(stageCtx, st)
		dur := time.Since(t0)

		st.Report.StageDurations[stage.Name] = dur
		rec.ObserveStageDuration(stage.Name, dur)

		if err != nil {
			if errors.Is(err, context.Canceled) {
				rec.IncStageResult(stage.Name, metrics.ResultCanceled)
				rec.IncRunOutcome("canceled")
			} else {
				rec.IncStageResult(stage.Name, metrics.ResultFatal)
				rec.IncRunOutcome("failed")
			}
			observability.ErrorContext(stageCtx, "Stage failed")
			return err
		}

		rec.IncStageResult(stage.Name, metrics.ResultSuccess)
		observability.DebugContext(stageCtx, "Stage completed")
	}

	rec.ObserveRunDuration(time.Since(runStart))
	rec.IncRunOutcome("success")
	return nil
}
