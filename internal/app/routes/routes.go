package routes

import (
	"disasterconnect-http-service/internal/app/controllers"
	"disasterconnect-http-service/internal/app/middleware"
	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/domain/services/container"

	"github.com/gin-gonic/gin"
)

// Per-IP limits of the credential endpoints, in requests per second
const (
	authRate  = 5.0 / 60
	authBurst = 5
)

// maxUploadMemory bounds the multipart form kept in memory
const maxUploadMemory = 16 << 20

// SetupRouter builds the engine with every middleware and route.
// cache holds the public GET responses and is purged by every successful write.
func SetupRouter(container *container.ServiceContainer, cache *middleware.ResponseCache) *gin.Engine {
	cfg := container.GetConfig()

	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory

	sessionService := container.GetService("session").(services.InterfaceSessionService)
	sessions := middleware.NewSessionManager(sessionService, cfg)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(sessions.Middleware())
	r.Use(cache.PurgeOnWrite())

	registerRoutes(r, container, cache)
	return r
}

// registerRoutes configures all API routes
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	cache *middleware.ResponseCache,
) {
	registerPublicRoutes(r, container, cache)
	registerAuthRoutes(r, container)
	registerReportRoutes(r, container, cache)
	registerAdminRoutes(r, container)
}

// registerPublicRoutes registers the index, health and upload routes
func registerPublicRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	cache *middleware.ResponseCache,
) {
	r.GET("/", controllers.HandleHealthFunc(container, cache, "index"))
	r.GET("/health", controllers.HandleHealthFunc(container, cache, "ping"))

	healthGroup := r.Group("/health")
	healthGroup.GET("/status", controllers.HandleHealthFunc(container, cache, "status"))
	healthGroup.GET("/cache-stats", controllers.HandleHealthFunc(container, cache, "cacheStats"))

	r.GET("/uploads/:filename", controllers.HandleUploadFunc(container))
}

// registerAuthRoutes registers user and admin session routes
func registerAuthRoutes(r *gin.Engine, container *container.ServiceContainer) {
	signupLimiter := middleware.IPRateLimiter(authRate, authBurst)
	loginLimiter := middleware.IPRateLimiter(authRate, authBurst)
	resetLimiter := middleware.IPRateLimiter(authRate, authBurst)
	adminLimiter := middleware.IPRateLimiter(authRate, authBurst)

	r.POST("/signup", signupLimiter.Middleware(), controllers.HandleAuthFunc(container, "signup"))
	r.POST("/login", loginLimiter.Middleware(), controllers.HandleAuthFunc(container, "login"))
	r.GET("/check_session", controllers.HandleAuthFunc(container, "checkSession"))
	r.POST("/logout", controllers.HandleAuthFunc(container, "logout"))
	r.POST("/reset-password", resetLimiter.Middleware(), controllers.HandleAuthFunc(container, "resetPassword"))

	r.POST("/admin/login", adminLimiter.Middleware(), controllers.HandleAdminAuthFunc(container, "login"))
	r.DELETE("/admin/logout", controllers.HandleAdminAuthFunc(container, "logout"))
	r.GET("/admin/check-session", controllers.HandleAdminAuthFunc(container, "checkSession"))

	r.POST("/setup/create-admin", adminLimiter.Middleware(), controllers.HandleAdminAuthFunc(container, "createFirstAdmin"))
}

// registerReportRoutes registers reports and their donations
func registerReportRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	cache *middleware.ResponseCache,
) {
	reportGroup := r.Group("/reports")
	reportGroup.GET("", cache.Cache(), controllers.HandleReportFunc(container, "getReports"))
	reportGroup.POST("", controllers.HandleReportFunc(container, "createReport"))
	reportGroup.GET("/my-reports", middleware.RequireUser(), controllers.HandleReportFunc(container, "getMyReports"))
	reportGroup.GET("/:id", cache.Cache(), controllers.HandleReportFunc(container, "getReport"))
	reportGroup.PATCH("/:id", middleware.RequireUser(), controllers.HandleReportFunc(container, "updateReport"))
	reportGroup.DELETE("/:id", middleware.RequireUser(), controllers.HandleReportFunc(container, "deleteReport"))

	reportGroup.GET("/:id/donations", cache.Cache(), controllers.HandleDonationFunc(container, "getDonations"))
	reportGroup.POST("/:id/donations", controllers.HandleDonationFunc(container, "createDonation"))
}

// registerAdminRoutes registers the moderation routes behind the admin session
func registerAdminRoutes(r *gin.Engine, container *container.ServiceContainer) {
	adminService := container.GetService("admin").(services.InterfaceAdminService)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(adminService))

	adminGroup.GET("/users", controllers.HandleAdminFunc(container, "getUsers"))
	adminGroup.DELETE("/users/:id", controllers.HandleAdminFunc(container, "deleteUser"))
	adminGroup.GET("/reports", controllers.HandleAdminFunc(container, "getReports"))
	adminGroup.DELETE("/reports/:id", controllers.HandleAdminFunc(container, "deleteReport"))
	adminGroup.GET("/donations", controllers.HandleAdminFunc(container, "getDonations"))
	adminGroup.DELETE("/donations/:id", controllers.HandleAdminFunc(container, "deleteDonation"))
	adminGroup.GET("/stats", controllers.HandleAdminFunc(container, "getStats"))
}
