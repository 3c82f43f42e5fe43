package commands

import (
	"context"
	"errors"
	"log/slog"

	"menucost/internal/domain/job"
	"menucost/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrUnknownJobType = errs.New("unknown job type")
	ErrInvalidSubject = errs.New("invalid recalculation subject")
)

// RecalcQueue is the slice of the job queue the enqueue command needs.
// Implemented by *kv.Queue.
type RecalcQueue interface {
	Enqueue(ctx context.Context, j job.Job) (uuid.UUID, error)
}

type EnqueueParams struct {
	Type             job.Type
	TenantID         uuid.UUID
	SubjectID        uuid.UUID
	CorrelationLogID *uuid.UUID
}

type RecalcCommands interface {
	// EnqueueRecalculation durably records a recalculation request and
	// returns its job id. Fire-and-forget from the caller's perspective:
	// the mutation that triggered it has already been committed.
	EnqueueRecalculation(ctx context.Context, params EnqueueParams) (uuid.UUID, error)
}

type recalcCommandsImpl struct {
	queue  RecalcQueue
	logger *slog.Logger
}

func NewRecalcCommands(queue RecalcQueue, logger *slog.Logger) RecalcCommands {
	return &recalcCommandsImpl{
		queue:  queue,
		logger: logger,
	}
}

func (c *recalcCommandsImpl) EnqueueRecalculation(ctx context.Context, params EnqueueParams) (uuid.UUID, error) {
	j, err := job.New(params.Type, params.TenantID, params.SubjectID, params.CorrelationLogID)
	if err != nil {
		switch {
		case errors.Is(err, job.ErrInvalidType):
			return uuid.Nil, errs.Mark(err, ErrUnknownJobType)
		default:
			return uuid.Nil, errs.Mark(err, ErrInvalidSubject)
		}
	}

	id, err := c.queue.Enqueue(ctx, j)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to enqueue recalculation")
	}

	c.logger.Info("recalculation enqueued",
		"job_id", id,
		"job_type", string(params.Type),
		"tenant_id", params.TenantID,
		"subject_id", params.SubjectID,
	)
	return id, nil
}
