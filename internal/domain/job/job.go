package job

import (
	"time"

	"menucost/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidType    = errs.New("invalid job type")
	ErrInvalidTenant  = errs.New("tenant id is required")
	ErrInvalidSubject = errs.New("subject id is required")
)

// Type identifies which recalculation entry point a job targets.
type Type string

const (
	TypePriceChange  Type = "price-change"
	TypeRecipeChange Type = "recipe-change"
	TypeComboChange  Type = "combo-change"
	TypeSeedData     Type = "seed-data"
)

func (t Type) Valid() bool {
	switch t {
	case TypePriceChange, TypeRecipeChange, TypeComboChange, TypeSeedData:
		return true
	}
	return false
}

// State is the queue-side lifecycle of a job: waiting -> active -> completed|failed.
// A job waiting on a retry backoff is reported as waiting.
type State string

const (
	StateWaiting   State = "waiting"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Job is a durable unit of deferred recalculation work. The payload is
// immutable once enqueued; only attempts and status are mutated by the queue.
// Correctness never depends on payload freshness: the cascade always reads
// the subject's current state from the entity store.
type Job struct {
	ID               uuid.UUID  `json:"id"`
	Type             Type       `json:"type"`
	TenantID         uuid.UUID  `json:"tenant_id"`
	SubjectID        uuid.UUID  `json:"subject_id"`
	CorrelationLogID *uuid.UUID `json:"correlation_log_id,omitempty"`
	Attempts         int        `json:"attempts"`
	EnqueuedAt       time.Time  `json:"enqueued_at"`
}

func New(t Type, tenantID, subjectID uuid.UUID, correlationLogID *uuid.UUID) (Job, error) {
	if !t.Valid() {
		return Job{}, ErrInvalidType
	}
	if tenantID == uuid.Nil {
		return Job{}, ErrInvalidTenant
	}
	if subjectID == uuid.Nil && t != TypeSeedData {
		return Job{}, ErrInvalidSubject
	}
	return Job{
		Type:             t,
		TenantID:         tenantID,
		SubjectID:        subjectID,
		CorrelationLogID: correlationLogID,
	}, nil
}

// LogicalKey identifies the logical job for idempotence reasoning: re-running
// the same logical job against an unchanged store must converge to the same state.
func (j Job) LogicalKey() string {
	return string(j.Type) + ":" + j.TenantID.String() + ":" + j.SubjectID.String()
}

// Status is the poll-visible view of a job's lifecycle.
type Status struct {
	State    State  `json:"state"`
	Progress int    `json:"progress"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
	Attempts int    `json:"attempts"`
}
