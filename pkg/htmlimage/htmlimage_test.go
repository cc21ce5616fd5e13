package htmlimage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rowanvale/html2img/internal/render"
)

func writeTemplate(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "tpl.html")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRenderWritesPNG(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeTemplate(t, dir, "<html><body><p>Hi {{ who }}</p></body></html>")
	outPath := filepath.Join(dir, "out.png")

	err := Render(context.Background(), Request{
		TemplatePath: tplPath,
		OutPath:      outPath,
		Width:        64,
		Height:       48,
		Data:         map[string]any{"who": "there"},
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	png, readErr := os.ReadFile(outPath)
	if readErr != nil {
		t.Fatalf("expected output file, got %v", readErr)
	}
	signature := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if !bytes.HasPrefix(png, signature) {
		t.Error("output file does not start with the PNG signature")
	}
}

func TestRenderAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeTemplate(t, dir, "<html><body>x</body></html>")

	// Zero Scale and AnimationTime must not trip validation.
	err := Render(context.Background(), Request{
		TemplatePath: tplPath,
		OutPath:      filepath.Join(dir, "defaults.png"),
		Width:        16,
		Height:       16,
	})
	if err != nil {
		t.Fatalf("expected defaults to apply, got %v", err)
	}
}

func TestRenderExplicitZeroAnimationTime(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeTemplate(t, dir, "<html><body>x</body></html>")

	err := Render(context.Background(), Request{
		TemplatePath:     tplPath,
		OutPath:          filepath.Join(dir, "frozen.png"),
		Width:            16,
		Height:           16,
		AnimationTimeSet: true,
	})
	if err != nil {
		t.Fatalf("expected animation_time 0 to be valid, got %v", err)
	}
}

func TestRenderClassifiedErrors(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeTemplate(t, dir, "<html><body>x</body></html>")

	t.Run("missing template", func(t *testing.T) {
		err := Render(context.Background(), Request{
			TemplatePath: filepath.Join(dir, "missing.html"),
			OutPath:      filepath.Join(dir, "a.png"),
			Width:        16,
			Height:       16,
		})
		var apiErr *render.Error
		if !errors.As(err, &apiErr) || apiErr.Kind != render.KindValidation {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("bad dimensions", func(t *testing.T) {
		err := Render(context.Background(), Request{
			TemplatePath: tplPath,
			OutPath:      filepath.Join(dir, "b.png"),
			Width:        0,
			Height:       16,
		})
		var apiErr *render.Error
		if !errors.As(err, &apiErr) || apiErr.Kind != render.KindValidation {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}
