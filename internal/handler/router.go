package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/metrics"
)

const (
	serviceName        = "PerfMap-App"
	healthCheckTimeout = 2 * time.Second
)

// HealthCheckFunc 公演データソースの疎通確認
type HealthCheckFunc func(ctx context.Context) error

// RouterDeps ルーター生成に必要な依存
type RouterDeps struct {
	MapHandler         *MapHandler
	PerformanceHandler *PerformanceHandler
	Logger             *logrus.Logger
	Metrics            *metrics.Collector
	Gatherer           prometheus.Gatherer // nil なら /metrics を登録しない
	Source             string
	HealthCheck        HealthCheckFunc // nil なら取得元の確認をしない
	PprofEnabled       bool
}

// NewRouter APIのルーティングを組み立てる
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(deps.Logger, deps.Metrics))

	router.GET("/api/health", healthHandler(deps.Source, deps.HealthCheck, deps.Logger))

	api := router.Group("/api")
	{
		api.GET("/map", deps.MapHandler.GetMap)
		api.GET("/map.svg", deps.MapHandler.GetMapSVG)

		api.GET("/provinces/:name/performances", deps.PerformanceHandler.GetProvincePerformances)
		api.GET("/artists/:name/history", deps.PerformanceHandler.GetArtistHistory)
		api.GET("/statistics", deps.PerformanceHandler.GetStatistics)
		api.GET("/search", deps.PerformanceHandler.Search)
		api.GET("/calendar", deps.PerformanceHandler.GetCalendar)
		api.GET("/timeline", deps.PerformanceHandler.GetTimeline)
	}

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	if deps.PprofEnabled {
		pprof.Register(router)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "エンドポイントが見つかりません: " + c.Request.URL.Path,
		})
	})

	return router
}

// healthHandler GET /api/health
func healthHandler(source string, check HealthCheckFunc, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.WithError(err).WithField("source", source).Warn("⚠️ 公演データソースのヘルスチェックに失敗")
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": serviceName,
					"source":  source,
					"error":   "source_unavailable",
					"message": "公演データソースに接続できません",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
			"source":  source,
		})
	}
}
