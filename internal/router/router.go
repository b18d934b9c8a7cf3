// Package router sets up all HTTP routes for the API.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Shimizu-Technology/doc-compare-api/internal/handlers"
	"github.com/Shimizu-Technology/doc-compare-api/internal/middleware"
)

// Options configures the middleware stack.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// Setup creates and configures the Gin router with all routes.
func Setup(h *handlers.Handler, rl *middleware.RateLimiter, log logrus.FieldLogger, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// --- Public Routes ---
	r.GET("/api/v1/health", h.HealthCheck)

	// API Documentation
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	// --- Comparison Routes (rate limited, time bounded) ---
	compare := r.Group("/")
	compare.Use(rl.RateLimit())
	compare.Use(middleware.Timeout(opts.RequestTimeout))
	{
		compare.POST("/upload", h.CompareDocuments)
		compare.POST("/api/v1/compare", h.CompareDocuments)
	}

	return r
}
