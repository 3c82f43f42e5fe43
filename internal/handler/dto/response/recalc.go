package response

import (
	"menucost/internal/domain/job"
	"menucost/internal/infra/kv"
)

type EnqueueRecalculationResponse struct {
	JobID string `json:"job_id"`
}

type JobStatusResponse struct {
	State    string `json:"state"`
	Progress int    `json:"progress"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
	Attempts int    `json:"attempts"`
}

func NewJobStatusResponse(s job.Status) JobStatusResponse {
	return JobStatusResponse{
		State:    string(s.State),
		Progress: s.Progress,
		Result:   s.Result,
		Error:    s.Error,
		Attempts: s.Attempts,
	}
}

type CacheStatsResponse struct {
	Namespaces []kv.CacheStats `json:"namespaces"`
}
