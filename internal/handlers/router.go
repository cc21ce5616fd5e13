package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rowanvale/html2img/internal/config"
	"github.com/rowanvale/html2img/internal/middleware"
	"github.com/rowanvale/html2img/internal/render"
)

// NewRouter assembles the HTTP surface: the render endpoint behind the body
// cap (and optional rate limiter), plus health and metrics.
func NewRouter(cfg *config.Service, pipeline *render.Pipeline) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/healthz", HealthzHandler)
	if cfg.MetricsEnabled {
		router.GET("/metrics", MetricsHandler(pipeline))
	}

	renderGroup := router.Group("/render")
	renderGroup.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		renderGroup.Use(limiter.Limit())
	}
	renderGroup.POST("/png", RenderPNGHandler(pipeline))

	return router
}
