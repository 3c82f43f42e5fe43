package queries

import (
	"context"

	"menucost/internal/domain/job"

	"github.com/google/uuid"
)

// JobStatusReader is the slice of the job queue status polling needs.
// Implemented by *kv.Queue.
type JobStatusReader interface {
	Status(ctx context.Context, id uuid.UUID) (job.Status, error)
}

type JobQueries interface {
	// GetJobStatus is a non-blocking poll of a job's lifecycle state,
	// consumed by UI polling during long-running operations.
	GetJobStatus(ctx context.Context, id uuid.UUID) (job.Status, error)
}

type jobQueriesImpl struct {
	reader JobStatusReader
}

func NewJobQueries(reader JobStatusReader) JobQueries {
	return &jobQueriesImpl{reader: reader}
}

func (q *jobQueriesImpl) GetJobStatus(ctx context.Context, id uuid.UUID) (job.Status, error) {
	return q.reader.Status(ctx, id)
}
