package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/greenloop/greenloop/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.EnableHSTS {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// The browser client runs on a separate origin in production, so
	// cookies only flow when CORS allows credentials for that origin.
	if cfg.CORSOrigin != "" {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
		router.Use(cors.New(corsConfig))
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auth endpoints are public: register/login create the session, and
	// verify/logout handle their own cookie inspection.
	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router.Group("/api/auth"))
	}

	// Inventory endpoints require a session
	if cfg.InventoryController != nil && cfg.AuthMiddleware != nil {
		protected := router.Group("/api/inventory")
		protected.Use(cfg.AuthMiddleware.RequireSession())
		cfg.InventoryController.RegisterRoutes(protected)
	}

	return router
}
