package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rowanvale/html2img/internal/config"
	"github.com/rowanvale/html2img/internal/handlers"
	"github.com/rowanvale/html2img/internal/logging"
	"github.com/rowanvale/html2img/internal/render"
	"github.com/rowanvale/html2img/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP rendering server",
	Long: `Serve starts the HTTP rendering server.

Configuration comes from the environment (a .env file is honored):

  HTML2IMG_ADDR               listen address (default :3000)
  HTML2IMG_FONTS_DIR          directory font names resolve against (unset disables fonts)
  HTML2IMG_MAX_BODY_MB        request body cap in MiB (default 1)
  HTML2IMG_RENDER_WORKERS     render worker count (default 3)
  HTML2IMG_RENDER_QUEUE_SIZE  render queue capacity (default 64)
  HTML2IMG_RATE_LIMIT_RPS     per-IP request rate (0 disables, default 0)
  HTML2IMG_METRICS_ENABLED    expose worker pool counters on /metrics (default true)
  HTML2IMG_CORS_ORIGINS       comma-separated CORS origins (unset disables CORS)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	logging.Setup()

	logging.InfoWithComponent(logging.ComponentStartup, "starting html2img server", "version", version.String())

	cfg, err := config.FromEnv()
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "invalid configuration", "error", err)
		return err
	}

	if cfg.FontsDir != "" {
		logging.InfoWithComponent(logging.ComponentStartup, "fonts enabled", "dir", cfg.FontsDir)
	} else {
		logging.InfoWithComponent(logging.ComponentStartup, "fonts disabled (no fonts directory configured)")
	}

	pipeline := render.NewPipeline(cfg)
	pipeline.Start()

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(cfg, pipeline)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logging.InfoWithComponent(logging.ComponentStartup, "listening", "address", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorWithComponent(logging.ComponentStartup, "failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.InfoWithComponent(logging.ComponentShutdown, "shutting down server and render workers")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.ErrorWithComponent(logging.ComponentShutdown, "server forced to shutdown", "error", err)
	}

	pipeline.Stop()

	logging.InfoWithComponent(logging.ComponentShutdown, "server stopped")
	return nil
}
