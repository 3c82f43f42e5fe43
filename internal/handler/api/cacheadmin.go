package api

import (
	"net/http"

	resdto "menucost/internal/handler/dto/response"
	"menucost/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CacheAdminHandler is the operational cache surface for support tooling.
// Nothing here participates in business logic.
type CacheAdminHandler struct {
	cacheAdmin queries.CacheAdmin
}

func NewCacheAdminHandler(cacheAdmin queries.CacheAdmin) *CacheAdminHandler {
	return &CacheAdminHandler{cacheAdmin: cacheAdmin}
}

func (h *CacheAdminHandler) Stats(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID != "" {
		if _, err := uuid.Parse(tenantID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid tenant id",
			})
			return
		}
	}

	stats, err := h.cacheAdmin.Stats(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Failed to read cache stats",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.CacheStatsResponse{Namespaces: stats})
}

func (h *CacheAdminHandler) FlushAll(c *gin.Context) {
	if err := h.cacheAdmin.FlushAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Failed to flush caches",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "flushed"})
}

func (h *CacheAdminHandler) InvalidateTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid tenant id",
		})
		return
	}

	if err := h.cacheAdmin.InvalidateTenant(c.Request.Context(), tenantID.String()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Failed to invalidate tenant caches",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}
