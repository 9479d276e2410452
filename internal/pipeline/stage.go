package pipeline

import (
	"context"
	"time"

	"subtitle2go/internal/logging"
	"subtitle2go/internal/services"
)

// stage runs fn with the stage name attached to ctx, publishes message, and
// mirrors the stage into the job registry.
func (r *Runner) stage(ctx context.Context, run *jobRun, name, message string, fn func(context.Context) error) error {
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, r.logger)

	if r.store != nil {
		if err := r.store.UpdateProgress(stageCtx, run.id, name, message); err != nil {
			logger.Warn("failed to persist stage transition", logging.Error(err))
		}
	}
	run.reporter.Publish(message)
	logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))

	started := time.Now()
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrCanceled, name, "start", "job canceled", err)
	}
	if err := fn(stageCtx); err != nil {
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err),
		)
		return err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}
