//go:build unit

package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menucost/internal/domain/job"
	"menucost/internal/handler/api"
	resdto "menucost/internal/handler/dto/response"
	"menucost/internal/pkg/errs"
	"menucost/internal/usecase/commands"
	commandsmock "menucost/tests/mock/commands"
	queriesmock "menucost/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RecalcHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRecalcCommands
	mockQueries  *queriesmock.MockJobQueries
	handler      *api.RecalcHandler
}

func (s *RecalcHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRecalcCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockJobQueries(s.mockCtrl)
	s.handler = api.NewRecalcHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/api/recalculations", s.handler.Enqueue)
	s.router.GET("/api/jobs/:id", s.handler.GetJobStatus)
}

func (s *RecalcHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRecalcHandlerSuite(t *testing.T) {
	suite.Run(t, new(RecalcHandlerTestSuite))
}

func (s *RecalcHandlerTestSuite) postJSON(url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RecalcHandlerTestSuite) TestEnqueue() {
	tenantID := uuid.New()
	subjectID := uuid.New()
	jobID := uuid.New()
	body := `{"type":"price-change","tenant_id":"` + tenantID.String() + `","subject_id":"` + subjectID.String() + `"}`

	s.Run("accepted", func() {
		s.mockCommands.EXPECT().
			EnqueueRecalculation(gomock.Any(), commands.EnqueueParams{
				Type:      job.TypePriceChange,
				TenantID:  tenantID,
				SubjectID: subjectID,
			}).
			Return(jobID, nil)

		w := s.postJSON("/api/recalculations", body)

		s.Equal(http.StatusAccepted, w.Code)
		var res resdto.EnqueueRecalculationResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
		s.Equal(jobID.String(), res.JobID)
	})

	s.Run("malformed body", func() {
		w := s.postJSON("/api/recalculations", `{"type":`)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing tenant", func() {
		w := s.postJSON("/api/recalculations", `{"type":"price-change"}`)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("unknown job type", func() {
		s.mockCommands.EXPECT().
			EnqueueRecalculation(gomock.Any(), gomock.Any()).
			Return(uuid.Nil, commands.ErrUnknownJobType)

		w := s.postJSON("/api/recalculations", `{"type":"rebuild-world","tenant_id":"`+tenantID.String()+`","subject_id":"`+subjectID.String()+`"}`)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("queue unavailable", func() {
		s.mockCommands.EXPECT().
			EnqueueRecalculation(gomock.Any(), gomock.Any()).
			Return(uuid.Nil, errs.New("redis down"))

		w := s.postJSON("/api/recalculations", body)
		s.Equal(http.StatusServiceUnavailable, w.Code)
	})
}

func (s *RecalcHandlerTestSuite) TestGetJobStatus() {
	jobID := uuid.New()

	s.Run("found", func() {
		s.mockQueries.EXPECT().
			GetJobStatus(gomock.Any(), jobID).
			Return(job.Status{State: job.StateActive, Progress: 50, Attempts: 1}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID.String(), nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusOK, w.Code)
		var res resdto.JobStatusResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
		s.Equal("active", res.State)
		s.Equal(50, res.Progress)
		s.Equal(1, res.Attempts)
	})

	s.Run("invalid id", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs/not-a-uuid", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("not found", func() {
		s.mockQueries.EXPECT().
			GetJobStatus(gomock.Any(), jobID).
			Return(job.Status{}, errs.Mark(errs.New("gone"), errs.ErrJobNotFound))

		req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID.String(), nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusNotFound, w.Code)
	})
}
