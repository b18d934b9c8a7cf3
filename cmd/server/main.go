// Package main is the entry point for the Document Compare API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/doc-compare-api/internal/config"
	"github.com/Shimizu-Technology/doc-compare-api/internal/handlers"
	"github.com/Shimizu-Technology/doc-compare-api/internal/logging"
	"github.com/Shimizu-Technology/doc-compare-api/internal/middleware"
	"github.com/Shimizu-Technology/doc-compare-api/internal/router"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/comparison"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/worker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Step 2: Set Up Logging
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("❌ Failed to set up logging: %v", err)
	}

	logger.Infof("🚀 Document Compare API %s starting...", Version)
	logger.Infof("📋 Config loaded: port=%s, workers=%d, queue=%d, gin_mode=%s",
		cfg.Port, cfg.WorkerCount, cfg.JobQueueSize, cfg.GinMode)
	logger.Infof("📁 Uploads: dir=%s, max=%dMB, timeout=%s", cfg.UploadDir, cfg.MaxUploadMB, cfg.RequestTimeout)

	gin.SetMode(cfg.GinMode)

	// Step 3: Create and Start the Extraction Pool
	wp := worker.NewPool(cfg.WorkerCount, cfg.JobQueueSize, comparison.Extractors(), logger)
	wp.Start()
	defer wp.Stop()

	// Step 4: Create Services
	svc := comparison.New(wp, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()
	logger.Infof("✅ Rate limit: %d requests/minute per client (burst %d)", cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	// Step 5: Setup HTTP Router
	h := handlers.NewHandler(svc, wp, logger, handlers.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		UploadDir:      cfg.UploadDir,
		Version:        Version,
	})
	r := router.Setup(h, rateLimiter, logger, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	// Step 6: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("🌐 Server listening on http://localhost:%s", cfg.Port)
		logger.Infof("📖 API docs: http://localhost:%s/api/docs", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 7: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Infof("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// In-flight comparisons finish before the deferred pool Stop runs.
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warnf("⚠️  Server forced to shutdown: %v", err)
	}

	logger.Info("👋 Server stopped. Goodbye!")
}
