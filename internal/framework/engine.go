package framework

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/basakil/webapi-bench/internal/routes"
)

// NewEngine builds a gin engine serving every route of table. Requests that
// match no route, including a wrong method or a trailing slash on a known
// path, get gin's own 404 response.
func NewEngine(table *routes.Table, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.HandleMethodNotAllowed = false
	engine.Use(recovery(logger), requestLogger(logger))

	for _, route := range table.Routes() {
		h := gin.WrapH(route.Handler)
		if route.Method == "" {
			engine.Any(route.Path, h)
			continue
		}
		engine.Handle(route.Method, route.Path, h)
	}
	return engine
}

func recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.Error("Handler panicked", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// requestLogger logs each request at debug level under a generated request id.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !logger.Enabled(c.Request.Context(), slog.LevelDebug) {
			c.Next()
			return
		}
		start := time.Now()
		id := uuid.NewString()
		c.Next()
		logger.Debug("Request served",
			"requestId", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
