package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GarrettC14/NutritionRx-sub008/config"
	"github.com/GarrettC14/NutritionRx-sub008/internal/metrics"
)

// SetupRouter creates and configures the Gin router. collector may be nil,
// in which case no /metrics route is registered.
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger, collector *metrics.Collector) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger, collector))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	if collector != nil {
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		foods := v1.Group("/foods")
		{
			foods.GET("/search", handler.SearchFoods)
			foods.POST("/batch", handler.GetFoodsBatch)
			foods.GET("/:fdcId", handler.GetFood)
			foods.GET("/:fdcId/nutrients", handler.GetFoodNutrients)
		}

		v1.GET("/nutrients/meta", handler.NutrientMeta)
		v1.DELETE("/cache", handler.ClearCache)
		v1.GET("/stats", handler.Stats)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return router
}
