package engine

import (
	"bytes"
	"errors"
	"testing"
)

func TestRenderRGBABufferSize(t *testing.T) {
	e := New()

	width, height := 32, 24
	pix, err := e.RenderRGBA("<html><body></body></html>", width, height, 1.0, 5.0, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if want := width * height * 4; len(pix) != want {
		t.Errorf("expected %d bytes, got %d", want, len(pix))
	}
}

func TestRenderRGBADefaultsToWhite(t *testing.T) {
	e := New()

	pix, err := e.RenderRGBA("<html><body></body></html>", 8, 8, 1.0, 5.0, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	for i, v := range pix {
		if v != 0xFF {
			t.Fatalf("expected white canvas, byte %d is %#x", i, v)
		}
	}
}

func TestRenderRGBAPaintsBodyBackground(t *testing.T) {
	e := New()

	doc := `<html><body style="background-color: #ff0000"></body></html>`
	pix, err := e.RenderRGBA(doc, 4, 4, 1.0, 5.0, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	// First pixel: solid red.
	r, g, b, a := pix[0], pix[1], pix[2], pix[3]
	if r != 0xFF || g != 0x00 || b != 0x00 || a != 0xFF {
		t.Errorf("expected red pixel, got rgba(%d, %d, %d, %d)", r, g, b, a)
	}
}

func TestRenderRGBATextPaintsPixels(t *testing.T) {
	e := New()

	blank, err := e.RenderRGBA("<html><body></body></html>", 64, 48, 1.0, 5.0, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	withText, err := e.RenderRGBA("<html><body><p>Hello</p></body></html>", 64, 48, 1.0, 5.0, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	changed := 0
	for i := range blank {
		if blank[i] != withText[i] {
			changed++
		}
	}
	if changed == 0 {
		t.Error("expected text to change at least one pixel")
	}
}

func TestRenderRGBAScaleGrowsText(t *testing.T) {
	e := New()

	doc := "<html><body><p>Hi</p></body></html>"
	at1, err := e.RenderRGBA(doc, 64, 64, 1.0, 5.0, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	at2, err := e.RenderRGBA(doc, 64, 64, 2.0, 5.0, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	ink := func(pix []byte) int {
		n := 0
		for i := 0; i < len(pix); i += 4 {
			if pix[i] != 0xFF || pix[i+1] != 0xFF || pix[i+2] != 0xFF {
				n++
			}
		}
		return n
	}
	if ink(at2) <= ink(at1) {
		t.Errorf("expected scale 2.0 to ink more pixels: %d vs %d", ink(at2), ink(at1))
	}
}

func TestRenderRGBAAnimationTimeDoesNotAffectOutput(t *testing.T) {
	e := New()

	doc := `<html><body style="background-color: #808080"><p>Hi</p></body></html>`
	frozen, err := e.RenderRGBA(doc, 32, 32, 1.0, 0, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	later, err := e.RenderRGBA(doc, 32, 32, 1.0, 42.0, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if !bytes.Equal(frozen, later) {
		t.Error("expected identical pixels for any animation time")
	}
}

func TestRenderRGBARejectsGarbageFont(t *testing.T) {
	e := New()

	_, err := e.RenderRGBA("<div>x</div>", 8, 8, 1.0, 5.0, []FontBlob{
		{Path: "/fonts/bad.ttf", Data: []byte("definitely not sfnt")},
	})
	if err == nil {
		t.Fatal("expected error for unparsable font blob")
	}
	var fontErr *FontLoadError
	if !errors.As(err, &fontErr) {
		t.Fatalf("expected FontLoadError, got %T: %v", err, err)
	}
	if fontErr.Path != "/fonts/bad.ttf" {
		t.Errorf("expected error to carry the blob path, got %q", fontErr.Path)
	}
}

func TestRenderRGBARejectsDegenerateCanvas(t *testing.T) {
	e := New()

	if _, err := e.RenderRGBA("<div></div>", 0, 10, 1.0, 5.0, nil); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := e.RenderRGBA("<div></div>", 10, -1, 1.0, 5.0, nil); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"folds runs", "a  \t b\n\nc", "a b c"},
		{"trims ends", "  hello  ", "hello"},
		{"break sentinel", "one" + string(lineBreak) + "two", "one\ntwo"},
		{"space around break", "one " + string(lineBreak) + " two", "one\ntwo"},
		{"empty", "   \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collapseWhitespace(tt.in); got != tt.want {
				t.Errorf("collapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
