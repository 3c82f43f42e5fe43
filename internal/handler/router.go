package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"menucost/internal/handler/api"
	"menucost/internal/handler/middleware"
	"menucost/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, recalcHandler *api.RecalcHandler, cacheAdminHandler *api.CacheAdminHandler) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, recalcHandler, cacheAdminHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, recalcHandler *api.RecalcHandler, cacheAdminHandler *api.CacheAdminHandler) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/recalculations", Handler: recalcHandler.Enqueue},
			{Method: http.MethodGet, Path: "/jobs/:id", Handler: recalcHandler.GetJobStatus},
		})

		cache := apiGroup.Group("/cache")
		{
			addRoutes(cache, []route{
				{Method: http.MethodGet, Path: "/stats", Handler: cacheAdminHandler.Stats},
				{Method: http.MethodPost, Path: "/flush", Handler: cacheAdminHandler.FlushAll},
				{Method: http.MethodDelete, Path: "/tenants/:tenantId", Handler: cacheAdminHandler.InvalidateTenant},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
