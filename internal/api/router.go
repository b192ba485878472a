package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/delhayec/MillionRecap/internal/config"
	"github.com/delhayec/MillionRecap/internal/handler"
	"github.com/delhayec/MillionRecap/internal/middleware"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Groups     *handler.GroupHandler
	Activities *handler.ActivityHandler
	Runs       *handler.RunHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers, limiter *middleware.RateLimiter, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

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
			"message": "MillionRecap API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.Auth(middleware.AuthConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	// API 路由组
	api := r.Group("/api/v1")
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter))
	}
	{
		groups := api.Group("/groups")
		{
			groups.GET("", h.Groups.GetGroups)
			groups.GET("/summary", h.Groups.GetSummary)
			groups.GET("/:id", h.Groups.GetGroupByID)
		}

		activities := api.Group("/activities")
		{
			activities.GET("", h.Activities.GetActivities)
			activities.POST("", auth, h.Activities.ImportActivities)
		}

		api.GET("/athletes", h.Activities.GetAthletes)

		runs := api.Group("/runs")
		{
			runs.GET("", h.Runs.ListRuns)
			runs.POST("", auth, h.Runs.CreateRun)
			runs.GET("/:id", h.Runs.GetRun)
		}
	}

	return r
}
