// Package htmlimage is the in-process binding for embedding the renderer in
// another Go program: one call takes a template file plus data and writes a
// PNG, with the CPU-bound work kept off the caller's goroutine on a dedicated
// worker.
package htmlimage

import (
	"context"
	"sync"

	"github.com/rowanvale/html2img/internal/config"
	"github.com/rowanvale/html2img/internal/render"
)

// Request describes one template-to-PNG render.
type Request struct {
	// TemplatePath is the HTML template file ({{ var }} placeholders).
	TemplatePath string
	// OutPath is the PNG destination; parent directories are created.
	OutPath string
	// Width and Height are the output pixel dimensions.
	Width  int
	Height int
	// Scale is the painter scale factor; 0 means 1.0.
	Scale float64
	// AnimationTime is the virtual animation clock in seconds; negative
	// values are rejected, 0 is valid, and the zero value here means the
	// default of 5 seconds only when AnimationTimeSet is false.
	AnimationTime    float64
	AnimationTimeSet bool
	// FontPaths are extra font files loaded from disk.
	FontPaths []string
	// Data holds arbitrary template variables.
	Data any
}

var (
	sharedOnce     sync.Once
	sharedPipeline *render.Pipeline
)

// pipeline lazily starts one small worker pool shared by all Render calls in
// the process.
func pipeline() *render.Pipeline {
	sharedOnce.Do(func() {
		cfg := &config.Service{
			Limits:      config.DefaultLimits(),
			WorkerCount: 2,
			QueueSize:   16,
		}
		sharedPipeline = render.NewPipeline(cfg)
		sharedPipeline.Start()
	})
	return sharedPipeline
}

// Render expands the template and writes the rendered PNG to req.OutPath.
// The returned error, when non-nil, is a *render.Error carrying the failure
// kind and a single human-readable message.
func Render(ctx context.Context, req Request) error {
	scale := req.Scale
	if scale == 0 {
		scale = render.DefaultScale
	}
	animationTime := req.AnimationTime
	if animationTime == 0 && !req.AnimationTimeSet {
		animationTime = render.DefaultAnimationTime
	}

	err := pipeline().RenderToFile(ctx, &render.FileRequest{
		TemplatePath:  req.TemplatePath,
		OutPath:       req.OutPath,
		Width:         req.Width,
		Height:        req.Height,
		Scale:         scale,
		AnimationTime: animationTime,
		FontPaths:     req.FontPaths,
		Data:          req.Data,
	})
	if err != nil {
		return err
	}
	return nil
}
