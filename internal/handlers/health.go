// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, multipart files, headers)
// - Response methods (JSON, Data, Status)
// - Middleware data (c.Get/c.Set)
//
// Related handlers hang off one struct (Handler) that holds their shared
// dependencies.
package handlers

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Shimizu-Technology/doc-compare-api/internal/models"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/comparison"
)

// Comparer runs a comparison. *comparison.Service satisfies it.
type Comparer interface {
	Compare(ctx context.Context, req comparison.Request) (*models.ComparisonResult, error)
}

// PoolStats reports extraction pool load. *worker.Pool satisfies it.
type PoolStats interface {
	WorkerCount() int
	QueueSize() int
}

// Options are the upload limits and build info the handlers need.
type Options struct {
	MaxUploadBytes int64
	UploadDir      string
	Version        string
}

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
// Tests build a Handler around a fake Comparer.
type Handler struct {
	Comparer Comparer
	Pool     PoolStats
	Log      logrus.FieldLogger
	Options  Options
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(cmp Comparer, pool PoolStats, log logrus.FieldLogger, opts Options) *Handler {
	if opts.UploadDir == "" {
		opts.UploadDir = os.TempDir()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Handler{
		Comparer: cmp,
		Pool:     pool,
		Log:      log,
		Options:  opts,
	}
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:     "ok",
		Version:    h.Options.Version,
		Workers:    h.Pool.WorkerCount(),
		QueueDepth: h.Pool.QueueSize(),
	})
}
