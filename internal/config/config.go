// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible defaults.
// A .env file in the working directory is loaded first (if present), then
// viper reads every key from the environment, falling back to the defaults
// registered below. The result is a plain struct; nothing else in the
// program talks to viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// CORS
	AllowedOrigins []string

	// Uploads
	UploadDir      string // Where request-scoped temp files are written
	MaxUploadMB    int64
	RequestTimeout time.Duration

	// Rate limiting, per client IP
	RateLimitPerMinute int
	RateLimitBurst     int

	// Extraction worker pool
	WorkerCount  int
	JobQueueSize int
}

// MaxUploadBytes is the request body limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_origin", "*")
	v.SetDefault("upload_dir", os.TempDir())
	v.SetDefault("max_upload_mb", 50)
	v.SetDefault("request_timeout", "60s")
	v.SetDefault("rate_limit_per_minute", 60)
	v.SetDefault("rate_limit_burst", 10)
	v.SetDefault("extract_workers", 4)
	v.SetDefault("extract_queue", 32)
}

// Load reads configuration from .env and the environment.
//
// Go Pattern: Functions that can fail return (value, error). The caller
// decides what a bad configuration means; main refuses to start.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:               v.GetString("port"),
		GinMode:            v.GetString("gin_mode"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		AllowedOrigins:     splitList(v.GetString("cors_origin")),
		UploadDir:          v.GetString("upload_dir"),
		MaxUploadMB:        v.GetInt64("max_upload_mb"),
		RequestTimeout:     v.GetDuration("request_timeout"),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		WorkerCount:        v.GetInt("extract_workers"),
		JobQueueSize:       v.GetInt("extract_queue"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first problem with cfg.
func (c *Config) Validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	positive := []struct {
		key   string
		value int64
	}{
		{"MAX_UPLOAD_MB", c.MaxUploadMB},
		{"RATE_LIMIT_PER_MINUTE", int64(c.RateLimitPerMinute)},
		{"RATE_LIMIT_BURST", int64(c.RateLimitBurst)},
		{"EXTRACT_WORKERS", int64(c.WorkerCount)},
		{"EXTRACT_QUEUE", int64(c.JobQueueSize)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be a positive number", p.key)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be a positive duration such as 60s")
	}

	info, err := os.Stat(c.UploadDir)
	if err != nil {
		return fmt.Errorf("UPLOAD_DIR: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("UPLOAD_DIR %q is not a directory", c.UploadDir)
	}

	return nil
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
