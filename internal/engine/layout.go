package engine

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/net/html"
)

const lineHeightFactor = 1.4

// lineBreak is the sentinel buildBlock inserts for <br>; collapseWhitespace
// turns it into a hard "\n" while folding ordinary source newlines away.
const lineBreak = '\u2028'

// blockTags are laid out as vertically stacked boxes; everything else is
// inline content flattened into its nearest block ancestor.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "ul": true,
}

// skippedTags produce no output at all.
var skippedTags = map[string]bool{
	"head": true, "script": true, "style": true, "template": true, "title": true,
}

type layoutState struct {
	canvas *image.RGBA
	fonts  []*opentype.Font
	scale  float64

	faceCache map[float64]font.Face
}

// block is one box in the vertical flow: its resolved style plus an ordered
// mix of inline text runs and nested blocks.
type block struct {
	st    style
	items []blockItem
}

// blockItem is either an inline text run (child == nil) or a nested block.
type blockItem struct {
	text  string
	child *block
}

func (ls *layoutState) paintBody(body *html.Node) {
	st := defaultStyle().applyNode(body)

	if st.background != nil {
		ls.fillRect(ls.canvas.Bounds(), *st.background, st.opacity)
		st.background = nil
	}

	root := ls.buildBlock(body, st)
	width := float64(ls.canvas.Bounds().Dx())
	ls.paintBlock(root, 0, width, 0)
}

// buildBlock collects the element's inline content and nested blocks in
// document order. Inline markup is flattened; its inheritable styling rides
// on the nearest block.
func (ls *layoutState) buildBlock(n *html.Node, st style) *block {
	b := &block{st: st}
	var run strings.Builder

	flush := func() {
		text := collapseWhitespace(run.String())
		if text != "" {
			b.items = append(b.items, blockItem{text: text})
		}
		run.Reset()
	}

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				run.WriteString(c.Data)
			case html.ElementNode:
				switch {
				case skippedTags[c.Data]:
				case c.Data == "br":
					run.WriteRune(lineBreak)
				case blockTags[c.Data]:
					flush()
					child := ls.buildBlock(c, st.inherit().applyNode(c))
					b.items = append(b.items, blockItem{child: child})
				default:
					// Inline element: descend, keeping the run open.
					walk(c)
				}
			}
		}
	}
	walk(n)
	flush()

	return b
}

// blockHeight measures a block without painting it, so backgrounds can be
// filled before their text is drawn.
func (ls *layoutState) blockHeight(b *block, x0, x1 float64) float64 {
	pad := b.st.padding * ls.scale
	height := 2 * pad
	cx0, cx1 := x0+pad, x1-pad

	for _, item := range b.items {
		if item.child != nil {
			height += ls.blockHeight(item.child, cx0, cx1)
			continue
		}
		lines := ls.wrapText(item.text, b.st, cx1-cx0)
		height += float64(len(lines)) * ls.lineHeight(b.st)
	}
	return height
}

// paintBlock draws a block between x0 and x1 starting at y and returns the y
// coordinate below it.
func (ls *layoutState) paintBlock(b *block, x0, x1, y float64) float64 {
	height := ls.blockHeight(b, x0, x1)

	if b.st.background != nil {
		rect := image.Rect(int(x0), int(y), int(x1+0.5), int(y+height+0.5))
		ls.fillRect(rect, *b.st.background, b.st.opacity)
	}

	pad := b.st.padding * ls.scale
	cx0, cx1 := x0+pad, x1-pad
	cy := y + pad

	for _, item := range b.items {
		if item.child != nil {
			cy = ls.paintBlock(item.child, cx0, cx1, cy)
			continue
		}
		for _, line := range ls.wrapText(item.text, b.st, cx1-cx0) {
			ls.drawLine(line, b.st, cx0, cx1, cy)
			cy += ls.lineHeight(b.st)
		}
	}

	return y + height
}

// drawLine paints one wrapped line, honoring alignment and faux-bolding by
// double-striking one pixel to the right.
func (ls *layoutState) drawLine(line string, st style, x0, x1, y float64) {
	face := ls.face(st.fontSize)
	metrics := face.Metrics()

	x := x0
	if st.align != alignLeft {
		lineWidth := fixedToFloat(font.MeasureString(face, line))
		switch st.align {
		case alignCenter:
			x = x0 + (x1-x0-lineWidth)/2
		case alignRight:
			x = x1 - lineWidth
		}
		if x < x0 {
			x = x0
		}
	}

	col := st.color
	if st.opacity < 1 {
		col.A = uint8(float64(col.A) * st.opacity)
	}

	drawer := &font.Drawer{
		Dst:  ls.canvas,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: floatToFixed(x),
			Y: floatToFixed(y) + metrics.Ascent,
		},
	}
	drawer.DrawString(line)

	if st.bold {
		drawer.Dot = fixed.Point26_6{
			X: floatToFixed(x + 1),
			Y: floatToFixed(y) + metrics.Ascent,
		}
		drawer.DrawString(line)
	}
}

// wrapText greedily wraps words to maxWidth. Newlines (from <br>) force
// breaks. A single word wider than the line is emitted as its own overlong
// line rather than being split mid-glyph.
func (ls *layoutState) wrapText(text string, st style, maxWidth float64) []string {
	face := ls.face(st.fontSize)
	limit := floatToFixed(maxWidth)

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if font.MeasureString(face, candidate) > limit {
				lines = append(lines, current)
				current = word
			} else {
				current = candidate
			}
		}
		lines = append(lines, current)
	}
	return lines
}

func (ls *layoutState) lineHeight(st style) float64 {
	return st.fontSize * ls.scale * lineHeightFactor
}

// face returns a cached font face for the given unscaled CSS pixel size,
// rendered from the first usable font.
func (ls *layoutState) face(fontSize float64) font.Face {
	size := fontSize * ls.scale
	if face, ok := ls.faceCache[size]; ok {
		return face
	}

	face, err := opentype.NewFace(ls.fonts[0], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// The font parsed but this size failed; fall back to the
		// embedded face which is known-good.
		face, _ = opentype.NewFace(ls.fonts[len(ls.fonts)-1], &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	if ls.faceCache == nil {
		ls.faceCache = make(map[float64]font.Face)
	}
	ls.faceCache[size] = face
	return face
}

func (ls *layoutState) fillRect(rect image.Rectangle, c color.NRGBA, opacity float64) {
	if opacity < 1 {
		c.A = uint8(float64(c.A) * opacity)
	}
	rect = rect.Intersect(ls.canvas.Bounds())
	draw.Draw(ls.canvas, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

// collapseWhitespace applies the standard inline whitespace collapse: any run
// of spaces, tabs or newlines becomes a single space. Explicit breaks from
// <br> arrive as lineBreak sentinels and come out as "\n".
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		switch r {
		case lineBreak:
			b.WriteByte('\n')
			space = false
		case ' ', '\t', '\n', '\r', '\f':
			space = true
		default:
			if space && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
