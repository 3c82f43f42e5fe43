package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"menucost/internal/domain/job"
	"menucost/internal/pkg/errs"
	"menucost/internal/usecase"

	"github.com/google/uuid"
)

const maxStackLines = 20

// process runs one job start-to-finish and records the outcome. Nothing here
// is allowed to crash the worker: panics inside the cascade are converted to
// job failures and handed to the queue's retry policy.
func (p *Pool) process(ctx context.Context, logger *slog.Logger, j *job.Job) {
	logger = logger.With(
		slog.String("job_id", j.ID.String()),
		slog.String("job_type", string(j.Type)),
		slog.String("tenant_id", j.TenantID.String()),
	)
	logger.Info("job started", "attempt", j.Attempts+1)

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	go p.runHeartbeat(hbCtx, logger, j.ID)

	start := p.clock.Now()
	touched, err := p.runJob(ctx, j)
	duration := p.clock.Now().Sub(start)
	stopHeartbeat()

	if err != nil {
		p.recordFailure(ctx, logger, j, duration, err)
		return
	}
	p.recordSuccess(ctx, logger, j, duration, touched)
}

func (p *Pool) runJob(ctx context.Context, j *job.Job) (touched usecase.Touched, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.New(fmt.Sprintf("panic in job handler: %v", r))
		}
	}()

	progress := func(pct int) {
		if perr := p.queue.SetProgress(ctx, j.ID, pct); perr != nil {
			p.logger.Warn("failed to record progress", "job_id", j.ID, "error", perr)
		}
	}
	return p.engine.Run(ctx, *j, progress)
}

// runHeartbeat refreshes the job lease while the cascade is running so a slow
// but healthy job is not redelivered mid-flight.
func (p *Pool) runHeartbeat(ctx context.Context, logger *slog.Logger, id uuid.UUID) {
	if p.heartbeatInterval <= 0 {
		return
	}
	ticker := time.NewTicker(p.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.queue.Heartbeat(ctx, id); err != nil && ctx.Err() == nil {
				logger.Warn("failed to extend job lease", "error", err)
			}
		}
	}
}

func (p *Pool) recordSuccess(ctx context.Context, logger *slog.Logger, j *job.Job, duration time.Duration, touched usecase.Touched) {
	p.coordinator.AfterCascade(ctx, *j, touched)

	result := fmt.Sprintf("recipes=%d combos=%d menu_items=%d",
		len(touched.Recipes), len(touched.Combos), len(touched.MenuItems))
	if err := p.queue.Ack(ctx, j.ID, result); err != nil {
		logger.Error("failed to ack completed job, it may be redelivered", "error", err)
	}

	metric := usecase.WorkerMetric{
		Queue:    p.queue.Name(),
		JobType:  j.Type,
		Duration: duration,
		Status:   usecase.MetricCompleted,
		Attempts: j.Attempts + 1,
	}
	if err := p.sink.RecordMetric(ctx, metric); err != nil {
		logger.Warn("failed to record worker metric", "error", err)
	}

	logger.Info("job completed", "duration_ms", duration.Milliseconds(), "result", result)
}

func (p *Pool) recordFailure(ctx context.Context, logger *slog.Logger, j *job.Job, duration time.Duration, cause error) {
	logger.Error("job failed", "duration_ms", duration.Milliseconds(), "error", cause)

	metric := usecase.WorkerMetric{
		Queue:    p.queue.Name(),
		JobType:  j.Type,
		Duration: duration,
		Status:   usecase.MetricFailed,
		Attempts: j.Attempts + 1,
	}
	if err := p.sink.RecordMetric(ctx, metric); err != nil {
		logger.Warn("failed to record worker metric", "error", err)
	}

	payload, _ := json.Marshal(j)
	entry := usecase.ErrorEntry{
		Queue:    p.queue.Name(),
		JobType:  j.Type,
		JobID:    j.ID,
		TenantID: j.TenantID,
		Message:  cause.Error(),
		Stack:    errs.ExtractStackLines(cause, maxStackLines),
		Payload:  payload,
	}
	if err := p.sink.RecordError(ctx, entry); err != nil {
		logger.Warn("failed to record error log", "error", err)
	}

	retryScheduled, err := p.queue.Nack(ctx, j.ID, cause)
	if err != nil {
		logger.Error("failed to nack job, lease expiry will redeliver it", "error", err)
		return
	}
	if retryScheduled {
		logger.Info("job scheduled for retry", "attempt", j.Attempts+1)
	} else {
		logger.Error("job permanently failed, attempts exhausted", "attempts", j.Attempts+1)
	}
}
