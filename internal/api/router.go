package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/trip-activity-go/internal/config"
	"github.com/jengzang/trip-activity-go/internal/handler"
	"github.com/jengzang/trip-activity-go/internal/middleware"
)

// Handlers groups the resource handlers mounted under /api/v1
type Handlers struct {
	Segmentation *handler.SegmentationHandler
	Evaluation   *handler.EvaluationHandler
	Trace        *handler.TraceHandler
}

// SetupRouter 设置路由. A nil limiter disables rate limiting.
func SetupRouter(cfg *config.Config, h Handlers, logger logrus.FieldLogger, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trip/activity inference API is running",
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter))
	}
	if cfg.Auth.JWTSecret != "" {
		api.Use(middleware.Auth(cfg.Auth.JWTSecret))
	}
	{
		segmentation := api.Group("/segmentation")
		{
			segmentation.POST("", h.Segmentation.Segment)
			segmentation.GET("/params", h.Segmentation.GetDefaults)
		}

		evaluations := api.Group("/evaluations")
		{
			evaluations.POST("", h.Evaluation.Create)
			evaluations.GET("", h.Evaluation.List)
			evaluations.GET("/:id", h.Evaluation.GetByID)
		}

		traces := api.Group("/traces")
		{
			traces.GET("", h.Trace.List)
			traces.POST("/:id", h.Trace.Import)
			traces.POST("/:id/evaluate", h.Trace.Evaluate)
			traces.DELETE("/:id", h.Trace.Delete)
		}
	}

	return r
}
