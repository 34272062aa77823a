package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pantryport/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/match", handler.MatchIngredient)
		v1.POST("/match/batch", handler.BatchMatchIngredients)
		v1.POST("/substitutes", handler.FindSubstitutes)
		v1.POST("/coverage", handler.ProductCoverage)
		v1.POST("/quantities/combine", handler.CombineQuantities)
		v1.GET("/products/:barcode", handler.GetProduct)
	}

	return router
}
