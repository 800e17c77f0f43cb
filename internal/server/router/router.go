package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/autoflex/inventory/internal/metrics"
	"github.com/autoflex/inventory/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(materials *handlers.MaterialsHandler, products *handlers.ProductsHandler, reports *handlers.ReportsHandler, logger *zap.Logger, exposeMetrics bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware())

	api := r.Group("/api")
	{
		api.GET("/materials", materials.List)
		api.POST("/materials", materials.Create)
		api.PUT("/materials/:id", materials.Update)
		api.DELETE("/materials/:id", materials.Delete)

		api.GET("/products", products.List)
		api.POST("/products", products.Create)
		api.DELETE("/products/:identifier", products.Delete)
		api.GET("/products/suggested-production", products.SuggestedProduction)
		api.GET("/products/suggested-production/export", products.ExportSuggestions)

		api.GET("/reports/latest", reports.Latest)
		api.POST("/reports/generate", reports.Generate)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if exposeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(
			c.Request.Method, route, statusClass(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func statusClass(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
