//go:build unit

package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"menucost/internal/handler/api"
	resdto "menucost/internal/handler/dto/response"
	"menucost/internal/infra/kv"
	"menucost/internal/pkg/errs"
	queriesmock "menucost/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CacheAdminHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	mockAdmin *queriesmock.MockCacheAdmin
	handler   *api.CacheAdminHandler
}

func (s *CacheAdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockAdmin = queriesmock.NewMockCacheAdmin(s.mockCtrl)
	s.handler = api.NewCacheAdminHandler(s.mockAdmin)

	s.router.GET("/api/cache/stats", s.handler.Stats)
	s.router.POST("/api/cache/flush", s.handler.FlushAll)
	s.router.DELETE("/api/cache/tenants/:tenantId", s.handler.InvalidateTenant)
}

func (s *CacheAdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCacheAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(CacheAdminHandlerTestSuite))
}

func (s *CacheAdminHandlerTestSuite) do(method, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *CacheAdminHandlerTestSuite) TestStats() {
	s.Run("all namespaces", func() {
		s.mockAdmin.EXPECT().
			Stats(gomock.Any(), "").
			Return([]kv.CacheStats{
				{Namespace: "dashboard", Keys: 12},
				{Namespace: "menu", Keys: 3},
				{Namespace: "recipes", Keys: 0},
			}, nil)

		w := s.do(http.MethodGet, "/api/cache/stats")

		s.Equal(http.StatusOK, w.Code)
		var res resdto.CacheStatsResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
		s.Len(res.Namespaces, 3)
		s.Equal(int64(12), res.Namespaces[0].Keys)
	})

	s.Run("tenant filter", func() {
		tenantID := uuid.New()
		s.mockAdmin.EXPECT().
			Stats(gomock.Any(), tenantID.String()).
			Return([]kv.CacheStats{{Namespace: "dashboard", Keys: 1}}, nil)

		w := s.do(http.MethodGet, "/api/cache/stats?tenant_id="+tenantID.String())
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("invalid tenant filter", func() {
		w := s.do(http.MethodGet, "/api/cache/stats?tenant_id=nope")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("backend failure", func() {
		s.mockAdmin.EXPECT().
			Stats(gomock.Any(), "").
			Return(nil, errs.New("redis down"))

		w := s.do(http.MethodGet, "/api/cache/stats")
		s.Equal(http.StatusServiceUnavailable, w.Code)
	})
}

func (s *CacheAdminHandlerTestSuite) TestFlushAll() {
	s.Run("success", func() {
		s.mockAdmin.EXPECT().FlushAll(gomock.Any()).Return(nil)

		w := s.do(http.MethodPost, "/api/cache/flush")
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("failure", func() {
		s.mockAdmin.EXPECT().FlushAll(gomock.Any()).Return(errs.New("redis down"))

		w := s.do(http.MethodPost, "/api/cache/flush")
		s.Equal(http.StatusServiceUnavailable, w.Code)
	})
}

func (s *CacheAdminHandlerTestSuite) TestInvalidateTenant() {
	tenantID := uuid.New()

	s.Run("success", func() {
		s.mockAdmin.EXPECT().InvalidateTenant(gomock.Any(), tenantID.String()).Return(nil)

		w := s.do(http.MethodDelete, "/api/cache/tenants/"+tenantID.String())
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("invalid tenant id", func() {
		w := s.do(http.MethodDelete, "/api/cache/tenants/nope")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("failure", func() {
		s.mockAdmin.EXPECT().InvalidateTenant(gomock.Any(), tenantID.String()).Return(errs.New("redis down"))

		w := s.do(http.MethodDelete, "/api/cache/tenants/"+tenantID.String())
		s.Equal(http.StatusServiceUnavailable, w.Code)
	})
}
