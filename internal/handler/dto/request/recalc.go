package request

import "github.com/google/uuid"

type EnqueueRecalculationRequest struct {
	Type             string     `json:"type" binding:"required"`
	TenantID         uuid.UUID  `json:"tenant_id" binding:"required"`
	SubjectID        uuid.UUID  `json:"subject_id"`
	CorrelationLogID *uuid.UUID `json:"correlation_log_id,omitempty"`
}
