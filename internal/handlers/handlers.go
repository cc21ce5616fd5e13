package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rowanvale/html2img/internal/render"
)

// HealthzHandler returns a fixed literal body with no processing, suitable
// for load balancer health checks.
func HealthzHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// MetricsHandler exposes the render worker pool counters.
func MetricsHandler(pipeline *render.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := pipeline.Metrics()
		c.JSON(http.StatusOK, gin.H{
			"total_jobs":     m.TotalJobs,
			"success_jobs":   m.SuccessJobs,
			"failed_jobs":    m.FailedJobs,
			"active_workers": m.ActiveWorkers,
			"queue_length":   m.QueueLength,
		})
	}
}
