package api

import (
	"errors"
	"net/http"

	"menucost/internal/domain/job"
	reqdto "menucost/internal/handler/dto/request"
	resdto "menucost/internal/handler/dto/response"
	"menucost/internal/pkg/errs"
	"menucost/internal/usecase/commands"
	"menucost/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecalcHandler struct {
	recalcCommands commands.RecalcCommands
	jobQueries     queries.JobQueries
}

func NewRecalcHandler(recalcCommands commands.RecalcCommands, jobQueries queries.JobQueries) *RecalcHandler {
	return &RecalcHandler{
		recalcCommands: recalcCommands,
		jobQueries:     jobQueries,
	}
}

// Enqueue accepts a recalculation request from a mutation handler and returns
// the job id immediately; processing happens asynchronously.
func (h *RecalcHandler) Enqueue(c *gin.Context) {
	var req reqdto.EnqueueRecalculationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.EnqueueParams{
		Type:             job.Type(req.Type),
		TenantID:         req.TenantID,
		SubjectID:        req.SubjectID,
		CorrelationLogID: req.CorrelationLogID,
	}

	jobID, err := h.recalcCommands.EnqueueRecalculation(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnknownJobType):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown job type",
			})
		case errors.Is(err, commands.ErrInvalidSubject):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid recalculation subject",
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Failed to enqueue recalculation",
			})
		}
		return
	}

	c.JSON(http.StatusAccepted, resdto.EnqueueRecalculationResponse{
		JobID: jobID.String(),
	})
}

// GetJobStatus serves UI polling: waiting -> active -> completed | failed.
func (h *RecalcHandler) GetJobStatus(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid job id",
		})
		return
	}

	status, err := h.jobQueries.GetJobStatus(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, errs.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Failed to load job status",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.NewJobStatusResponse(status))
}
