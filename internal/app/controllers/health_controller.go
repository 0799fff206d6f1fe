package controllers

import (
	"net/http"

	"disasterconnect-http-service/internal/app/middleware"
	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/domain/services/container"
	"disasterconnect-http-service/internal/error/response"
	"disasterconnect-http-service/internal/infrastructure/database"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// HealthCheckController serves liveness and diagnostics endpoints
type HealthCheckController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
	Cache     *middleware.ResponseCache
}

// NewHealthCheckController creates a new health check controller
func NewHealthCheckController(ctx *gin.Context, container *container.ServiceContainer, cache *middleware.ResponseCache) *HealthCheckController {
	return &HealthCheckController{
		Ctx:       ctx,
		Container: container,
		Cache:     cache,
	}
}

// HandleHealthFunc returns a gin handler for the health endpoints
func HandleHealthFunc(container *container.ServiceContainer, cache *middleware.ResponseCache, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(ctx, container, cache)

		switch method {
		case "index":
			controller.Index()
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		case "cacheStats":
			controller.CacheStats()
		default:
			invalidMethod(ctx)
		}
	}
}

// Index answers the root path
func (h *HealthCheckController) Index() {
	h.Ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Project Server</h1>"))
}

// Ping reports that the process is up
func (h *HealthCheckController) Ping() {
	response.Success(h.Ctx, gin.H{"status": "healthy"})
}

// Status pings the database and reports pool and dependency state
func (h *HealthCheckController) Status() {
	pool := h.Container.GetService("pool").(*database.ConnectionPool)
	ctx := h.Ctx.Request.Context()

	status := http.StatusOK
	body := gin.H{"status": "healthy", "database": "ok"}

	if err := pool.HealthCheck(ctx); err != nil {
		Logger.FromContext(ctx).WithError(err).Error("database health check failed")
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = err.Error()
	}
	if stats, err := pool.Stats(); err == nil {
		body["pool"] = stats
	}

	if redis, ok := h.Container.GetService("redis").(services.InterfaceRedisService); ok && redis != nil {
		if err := redis.Ping(ctx); err != nil {
			body["redis"] = err.Error()
		} else {
			body["redis"] = "ok"
		}
	} else {
		body["redis"] = "disabled"
	}

	cfg := h.Container.GetConfig()
	body["ai_classification"] = cfg.AIConfigured()
	if images, ok := h.Container.GetService("images").(interface{ Backends() []string }); ok {
		body["image_backends"] = images.Backends()
	}

	h.Ctx.JSON(status, body)
}

// CacheStats returns the response cache counters
func (h *HealthCheckController) CacheStats() {
	if h.Cache == nil {
		response.Success(h.Ctx, gin.H{"enabled": false})
		return
	}
	response.Success(h.Ctx, h.Cache.Stats())
}
