// Package engine lays out and paints HTML documents into raw RGBA pixel
// buffers. It is CPU-only and self-contained: no browser, no script
// execution, no network fetches. Styling is an inline-CSS subset
// (background-color, color, font-size, padding, text-align, opacity) over a
// vertical block layout with word-wrapped text.
package engine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/net/html"
)

// FontBlob is a font file loaded into memory, tagged with the path it came
// from for error reporting.
type FontBlob struct {
	Path string
	Data []byte
}

// FontLoadError reports a blob that contained no usable font face. Callers
// treat this as a caller-input problem, distinct from paint failures.
type FontLoadError struct {
	Path string
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("no loadable fonts found at %s", e.Path)
}

// Engine renders HTML documents. It holds no per-request state and is safe
// for concurrent use.
type Engine struct{}

// New creates an Engine.
func New() *Engine {
	return &Engine{}
}

// RenderRGBA renders an HTML document into a width*height*4 RGBA buffer.
// Scale multiplies font and box metrics. animationTime is the virtual
// animation clock in seconds; the supported style subset has no
// time-dependent properties, so the value does not affect the output.
func (e *Engine) RenderRGBA(doc string, width, height int, scale, animationTime float64, fonts []FontBlob) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate canvas %dx%d", width, height)
	}

	faces, err := parseFonts(fonts)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	layout := &layoutState{
		canvas: canvas,
		fonts:  faces,
		scale:  scale,
	}
	if body := findElement(root, "body"); body != nil {
		layout.paintBody(body)
	}

	return canvas.Pix, nil
}

// parseFonts parses the caller-supplied blobs in order, then appends the
// embedded Go Regular fallback so text always has a face to render with.
func parseFonts(blobs []FontBlob) ([]*opentype.Font, error) {
	faces := make([]*opentype.Font, 0, len(blobs)+1)
	for _, blob := range blobs {
		parsed, err := opentype.Parse(blob.Data)
		if err != nil {
			return nil, &FontLoadError{Path: blob.Path}
		}
		faces = append(faces, parsed)
	}

	fallback, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded fallback font: %w", err)
	}
	return append(faces, fallback), nil
}

// findElement does a depth-first search for the first element with the given
// tag name.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
