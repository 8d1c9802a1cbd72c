package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/acadsys/acadsys-backend/internal/config"
	"github.com/acadsys/acadsys-backend/internal/handler"
	"github.com/acadsys/acadsys-backend/internal/middleware"
	"github.com/acadsys/acadsys-backend/internal/response"
	"github.com/acadsys/acadsys-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Room         *handler.RoomHandler
	Discipline   *handler.DisciplineHandler
	ClassSection *handler.ClassSectionHandler
	User         *handler.UserHandler
	WS           *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	sessionService *service.SessionService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the login route (30 requests per minute per IP).
	loginLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireSession(sessionService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireSession(sessionService), handlers.Auth.Me)
		auth.PUT("/profile", middleware.RequireSession(sessionService), handlers.Auth.UpdateProfile)
	}

	// ─── 2. Academic Collections (Session Required) ────────────────────
	// Reads are open to every authenticated operator; writes are ADMIN only.
	api := router.Group("/api/v1")
	api.Use(middleware.RequireSession(sessionService))
	{
		api.GET("/salas", handlers.Room.List)
		api.POST("/salas", middleware.RequireAdmin(), handlers.Room.Create)
		api.PUT("/salas/:id", middleware.RequireAdmin(), handlers.Room.Update)
		api.DELETE("/salas/:id", middleware.RequireAdmin(), handlers.Room.Delete)

		api.GET("/disciplinas", handlers.Discipline.List)
		api.POST("/disciplinas", middleware.RequireAdmin(), handlers.Discipline.Create)
		api.PUT("/disciplinas/:id", middleware.RequireAdmin(), handlers.Discipline.Update)
		api.DELETE("/disciplinas/:id", middleware.RequireAdmin(), handlers.Discipline.Delete)

		api.GET("/turmas", handlers.ClassSection.List)
		api.POST("/turmas", middleware.RequireAdmin(), handlers.ClassSection.Create)
		api.PUT("/turmas/:id", middleware.RequireAdmin(), handlers.ClassSection.Update)
		api.DELETE("/turmas/:id", middleware.RequireAdmin(), handlers.ClassSection.Delete)
	}

	// ─── 3. Admin Group (Session + ADMIN role) ─────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireSession(sessionService), middleware.RequireAdmin())
	{
		adminAPI.GET("/users", handlers.User.List)
		adminAPI.POST("/users", handlers.User.Create)
		adminAPI.PUT("/users/:id", handlers.User.Update)
		adminAPI.DELETE("/users/:id", handlers.User.Delete)
		adminAPI.POST("/users/:id/toggle-active", handlers.User.ToggleActive)

		adminAPI.GET("/diagnostics", handlers.User.Diagnostics)
	}

	// ─── 4. WebSocket Group (Session via token query) ──────────────────
	wsGroup := router.Group("/ws/v1")
	wsGroup.Use(middleware.RequireSession(sessionService))
	{
		wsGroup.GET("/changes", handlers.WS.ChangeStream)
	}

	return router
}
