package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rowanvale/html2img/internal/logging"
	"github.com/rowanvale/html2img/internal/render"
)

// RenderPNGHandler handles POST /render/png: JSON request in, raw PNG bytes
// out. Failures map to a status code plus a single-sentence JSON error body.
func RenderPNGHandler(pipeline *render.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Absent fields keep these defaults; present fields overwrite them.
		req := render.Request{
			Scale:         render.DefaultScale,
			AnimationTime: render.DefaultAnimationTime,
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		png, apiErr := pipeline.ProcessPNG(c.Request.Context(), &req)
		if apiErr != nil {
			logging.DebugWithComponent(logging.ComponentAPIRender, "render request failed",
				"kind", apiErr.Kind.String(), "status", apiErr.HTTPStatus(), "error", apiErr.Error())
			c.JSON(apiErr.HTTPStatus(), gin.H{"error": apiErr.Error()})
			return
		}

		c.Data(http.StatusOK, "image/png", png)
	}
}
