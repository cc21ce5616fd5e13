package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/rowanvale/html2img/internal/config"
	"github.com/rowanvale/html2img/internal/engine"
	"github.com/rowanvale/html2img/internal/imageprocessing"
	"github.com/rowanvale/html2img/internal/logging"
	"github.com/rowanvale/html2img/internal/template"
)

// Pipeline is the shared request-processing core behind every entry point.
// Control flow is strictly linear: validate, resolve fonts, expand the
// template, then hand the CPU-bound layout/paint/encode work to the worker
// pool. Any failure short-circuits with exactly one classified error and no
// bytes. The pipeline holds no per-request state.
type Pipeline struct {
	cfg       *config.Service
	pool      *WorkerPool
	templates *template.Renderer
	engine    *engine.Engine
}

// NewPipeline builds a pipeline over cfg. Call Start before submitting work
// and Stop on shutdown.
func NewPipeline(cfg *config.Service) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		pool:      NewWorkerPool(cfg.WorkerCount, cfg.QueueSize),
		templates: template.NewRenderer(),
		engine:    engine.New(),
	}
}

// Start launches the render workers.
func (p *Pipeline) Start() {
	p.pool.Start()
}

// Stop drains the render workers.
func (p *Pipeline) Stop() {
	p.pool.Stop()
}

// Metrics exposes the worker pool counters.
func (p *Pipeline) Metrics() PoolMetrics {
	return p.pool.Metrics()
}

// ProcessPNG runs one untrusted request through the full pipeline and returns
// encoded PNG bytes. Font names are resolved against the sandboxed fonts
// directory.
func (p *Pipeline) ProcessPNG(ctx context.Context, req *Request) ([]byte, *Error) {
	if err := Validate(req, p.cfg.Limits); err != nil {
		return nil, err
	}

	fontPaths, err := ResolveFonts(p.cfg.FontsDir, req.FontPaths)
	if err != nil {
		return nil, err
	}

	html, err := p.expand(req)
	if err != nil {
		return nil, err
	}

	blobs, err := loadFontBlobs(fontPaths)
	if err != nil {
		return nil, err
	}

	return p.renderPNG(ctx, html, req, blobs)
}

// FileRequest is a render call against the local filesystem, used by the CLI
// and the in-process binding. Font paths are raw filesystem paths: this is an
// operator surface, not the network sandbox.
type FileRequest struct {
	TemplatePath  string
	OutPath       string
	Width         int
	Height        int
	Scale         float64
	AnimationTime float64
	FontPaths     []string
	Data          any
}

// RenderToFile expands the template file and writes the rendered PNG to
// OutPath, creating parent directories as needed.
func (p *Pipeline) RenderToFile(ctx context.Context, freq *FileRequest) *Error {
	raw, readErr := os.ReadFile(freq.TemplatePath)
	if readErr != nil {
		return Validationf("failed to read template file: %s", freq.TemplatePath)
	}

	req := &Request{
		HTML:          string(raw),
		Width:         freq.Width,
		Height:        freq.Height,
		Scale:         freq.Scale,
		AnimationTime: freq.AnimationTime,
		Data:          freq.Data,
	}

	if err := Validate(req, p.cfg.Limits); err != nil {
		return err
	}

	html, err := p.expand(req)
	if err != nil {
		return err
	}

	blobs, err := loadFontBlobs(freq.FontPaths)
	if err != nil {
		return err
	}

	png, err := p.renderPNG(ctx, html, req, blobs)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(freq.OutPath); dir != "" && dir != "." {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return Renderf("failed to create output directory: %s", dir)
		}
	}
	if writeErr := os.WriteFile(freq.OutPath, png, 0o644); writeErr != nil {
		return Renderf("failed to write png: %s", freq.OutPath)
	}
	return nil
}

// expand builds the template context and runs the template engine. Expansion
// failures are caused by caller-supplied template text, not server state.
func (p *Pipeline) expand(req *Request) (string, *Error) {
	html, err := p.templates.Render(req.HTML, BuildContext(req))
	if err != nil {
		return "", Validationf("%v", err)
	}
	return html, nil
}

// renderPNG dispatches the CPU-bound layout, paint and encode steps to the
// worker pool and waits for the result.
func (p *Pipeline) renderPNG(ctx context.Context, html string, req *Request, blobs []engine.FontBlob) ([]byte, *Error) {
	width, height := req.Width, req.Height
	scale, animationTime := req.Scale, req.AnimationTime

	png, err := p.pool.Submit(ctx, func() ([]byte, error) {
		rgba, renderErr := p.engine.RenderRGBA(html, width, height, scale, animationTime, blobs)
		if renderErr != nil {
			var fontErr *engine.FontLoadError
			if errors.As(renderErr, &fontErr) {
				return nil, Validationf("%v", fontErr)
			}
			return nil, Renderf("%v", renderErr)
		}

		encoded, encodeErr := imageprocessing.EncodeRGBAPNG(rgba, width, height)
		if encodeErr != nil {
			return nil, Renderf("%v", encodeErr)
		}
		return encoded, nil
	})
	if err != nil {
		if err.Kind == KindTask {
			logging.ErrorWithComponent(logging.ComponentPipeline, "render task failed", "error", err.Message)
		}
		return nil, err
	}
	return png, nil
}

// loadFontBlobs reads each resolved font file into memory. A file that cannot
// be read fails the whole request; the engine never silently proceeds without
// a requested font.
func loadFontBlobs(paths []string) ([]engine.FontBlob, *Error) {
	if len(paths) == 0 {
		return nil, nil
	}

	blobs := make([]engine.FontBlob, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, Validationf("failed to read font at %s", path)
		}
		blobs = append(blobs, engine.FontBlob{Path: path, Data: data})
	}
	return blobs, nil
}
