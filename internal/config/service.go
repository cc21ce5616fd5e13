package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default limits applied when the environment does not override them.
const (
	DefaultMaxDimension     = 4096
	DefaultMaxScale         = 8.0
	DefaultMaxAnimationTime = 60.0 // seconds
	DefaultMaxBodyBytes     = 1 << 20
	DefaultWorkerCount      = 3
	DefaultQueueSize        = 64
	DefaultAddr             = ":3000"
)

// Limits bounds the numeric fields of a render request.
type Limits struct {
	MaxDimension     int
	MaxScale         float64
	MaxAnimationTime float64
}

// DefaultLimits returns the stock request limits.
func DefaultLimits() Limits {
	return Limits{
		MaxDimension:     DefaultMaxDimension,
		MaxScale:         DefaultMaxScale,
		MaxAnimationTime: DefaultMaxAnimationTime,
	}
}

// Service is the immutable process-wide configuration. It is built once at
// startup and shared read-only by every request; nothing mutates it afterwards.
type Service struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// FontsDir is the canonicalized directory font names are resolved
	// against. Empty means font requests are not allowed.
	FontsDir string

	Limits       Limits
	MaxBodyBytes int64

	// Render worker pool sizing.
	WorkerCount int
	QueueSize   int

	// RateLimitRPS enables the per-IP request limiter when > 0.
	RateLimitRPS   float64
	RateLimitBurst int

	// MetricsEnabled exposes the worker pool counters on GET /metrics.
	MetricsEnabled bool

	// CORSOrigins enables the CORS middleware when non-empty.
	CORSOrigins []string
}

// FromEnv builds a Service configuration from the process environment.
// The fonts directory, when configured, must exist and be a directory; it is
// canonicalized here so the per-request sandbox check compares real paths.
func FromEnv() (*Service, error) {
	svc := &Service{
		Addr:           Get("HTML2IMG_ADDR", DefaultAddr),
		Limits:         DefaultLimits(),
		MaxBodyBytes:   int64(GetInt("HTML2IMG_MAX_BODY_MB", 1)) << 20,
		WorkerCount:    GetInt("HTML2IMG_RENDER_WORKERS", DefaultWorkerCount),
		QueueSize:      GetInt("HTML2IMG_RENDER_QUEUE_SIZE", DefaultQueueSize),
		RateLimitRPS:   GetFloat("HTML2IMG_RATE_LIMIT_RPS", 0),
		RateLimitBurst: GetInt("HTML2IMG_RATE_LIMIT_BURST", 10),
		MetricsEnabled: GetBool("HTML2IMG_METRICS_ENABLED", true),
	}

	if svc.MaxBodyBytes <= 0 {
		svc.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if origins := Get("HTML2IMG_CORS_ORIGINS", ""); origins != "" {
		svc.CORSOrigins = splitAndTrim(origins)
	}

	if dir := Get("HTML2IMG_FONTS_DIR", ""); dir != "" {
		canonical, err := CanonicalFontsDir(dir)
		if err != nil {
			return nil, err
		}
		svc.FontsDir = canonical
	}

	return svc, nil
}

// CanonicalFontsDir resolves symlinks in dir and verifies it is a directory.
func CanonicalFontsDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve fonts dir %s: %w", dir, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read fonts dir %s: %w", dir, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to stat fonts dir %s: %w", canonical, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("fonts dir is not a directory: %s", canonical)
	}
	return canonical, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
