package writerepo

import (
	"context"

	"menucost/internal/infra"
	"menucost/internal/infra/db"
	"menucost/internal/usecase"
)

// ObservabilityRepository is the append-only sink for per-job metrics and
// structured failures. The pipeline never reads these back; they exist for
// operators.
type ObservabilityRepository struct {
	db db.DBTX
}

func NewObservabilityRepository(dbtx db.DBTX) *ObservabilityRepository {
	return &ObservabilityRepository{db: dbtx}
}

func (r *ObservabilityRepository) RecordMetric(ctx context.Context, m usecase.WorkerMetric) error {
	const q = `
		INSERT INTO worker_metrics (queue, job_type, duration_ms, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`

	_, err := r.db.Exec(ctx, q, m.Queue, string(m.JobType), m.Duration.Milliseconds(), string(m.Status), m.Attempts)
	if err != nil {
		return infra.WrapRepoErr("failed to record worker metric", err)
	}
	return nil
}

func (r *ObservabilityRepository) RecordError(ctx context.Context, e usecase.ErrorEntry) error {
	const q = `
		INSERT INTO error_logs (queue, job_type, job_id, tenant_id, message, stack, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`

	_, err := r.db.Exec(ctx, q, e.Queue, string(e.JobType), e.JobID, e.TenantID, e.Message, e.Stack, e.Payload)
	if err != nil {
		return infra.WrapRepoErr("failed to record error log", err)
	}
	return nil
}
