package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/ecorisk-backend-go/internal/auth"
	"github.com/jengzang/ecorisk-backend-go/internal/handler"
	"github.com/jengzang/ecorisk-backend-go/internal/middleware"
	"github.com/jengzang/ecorisk-backend-go/internal/observability"
)

// Dependencies wires handlers and middleware into the router
type Dependencies struct {
	Sessions  *handler.SessionHandler
	Sources   *handler.SourceHandler
	Geocoding *handler.GeocodingHandler
	Grid      *handler.GridHandler

	Tokens        *auth.TokenManager
	SearchLimiter *middleware.RateLimiter
	Metrics       *observability.Metrics
	Logger        *slog.Logger
}

// SetupRouter 设置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(deps.Logger, deps.Metrics))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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
			"message": "Eco risk map API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由组
	api := r.Group("/api/v1")
	{
		api.POST("/sessions", deps.Sessions.CreateSession)

		// 需要会话令牌的接口
		authed := api.Group("", middleware.SessionAuth(deps.Tokens))
		{
			authed.GET("/session", deps.Sessions.GetSession)

			authed.GET("/sources", deps.Sources.ListSources)
			authed.POST("/sources", deps.Sources.UploadSources)

			authed.POST("/center", middleware.RateLimit(deps.SearchLimiter), deps.Geocoding.SetCenter)
			authed.PUT("/radius", deps.Grid.SetRadius)

			authed.GET("/map", deps.Grid.GetMap)
			authed.GET("/map.geojson", deps.Grid.GetMapGeoJSON)
			authed.GET("/grid", deps.Grid.GetGridCells)
			authed.GET("/grid/stats", deps.Grid.GetGridStats)
			authed.GET("/risk", deps.Grid.GetPointRisk)
		}
	}

	return r
}
