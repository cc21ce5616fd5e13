package render

import (
	"os"
	"path/filepath"
	"testing"
)

// fontsDir creates a canonical temp fonts directory with the given files.
func fontsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("font-bytes"), 0o644); err != nil {
			t.Fatalf("failed to create font file: %v", err)
		}
	}
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("failed to canonicalize temp dir: %v", err)
	}
	return canonical
}

func TestResolveFontsEmptyList(t *testing.T) {
	t.Run("with no fonts dir", func(t *testing.T) {
		resolved, err := ResolveFonts("", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(resolved) != 0 {
			t.Errorf("expected empty result, got %v", resolved)
		}
	})

	t.Run("with fonts dir", func(t *testing.T) {
		resolved, err := ResolveFonts(fontsDir(t), []string{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(resolved) != 0 {
			t.Errorf("expected empty result, got %v", resolved)
		}
	})
}

func TestResolveFontsNotConfigured(t *testing.T) {
	_, err := ResolveFonts("", []string{"anything.ttf"})
	if err == nil {
		t.Fatal("expected error when fonts are requested without a configured directory")
	}
	if err.Kind != KindFontsNotAllowed {
		t.Errorf("expected KindFontsNotAllowed, got %v", err.Kind)
	}
}

func TestResolveFontsSeparatorRejected(t *testing.T) {
	dir := fontsDir(t, "real.ttf")

	for _, name := range []string{
		"../../etc/passwd",
		"sub/inner.ttf",
		`..\..\windows`,
		"/etc/passwd",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ResolveFonts(dir, []string{name})
			if err == nil {
				t.Fatal("expected error for name with separator")
			}
			if err.Kind != KindFontsNotAllowed {
				t.Errorf("expected KindFontsNotAllowed, got %v", err.Kind)
			}
		})
	}
}

func TestResolveFontsMissingFile(t *testing.T) {
	dir := fontsDir(t, "real.ttf")

	_, err := ResolveFonts(dir, []string{"missing.ttf"})
	if err == nil {
		t.Fatal("expected error for missing font")
	}
	if err.Kind != KindValidation {
		t.Errorf("expected KindValidation for a not-found font, got %v", err.Kind)
	}
}

func TestResolveFontsSymlinkEscape(t *testing.T) {
	dir := fontsDir(t)

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.ttf")
	if err := os.WriteFile(secret, []byte("outside"), 0o644); err != nil {
		t.Fatalf("failed to create outside file: %v", err)
	}

	// The link name is separator-free and lives inside the sandbox, but its
	// target does not.
	if err := os.Symlink(secret, filepath.Join(dir, "escape.ttf")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := ResolveFonts(dir, []string{"escape.ttf"})
	if err == nil {
		t.Fatal("expected symlink escape to be rejected")
	}
	if err.Kind != KindFontsNotAllowed {
		t.Errorf("expected KindFontsNotAllowed, got %v", err.Kind)
	}
}

func TestResolveFontsSuccessPreservesOrder(t *testing.T) {
	dir := fontsDir(t, "a.ttf", "b.ttf")

	resolved, err := ResolveFonts(dir, []string{"b.ttf", "a.ttf"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(resolved))
	}
	if filepath.Base(resolved[0]) != "b.ttf" || filepath.Base(resolved[1]) != "a.ttf" {
		t.Errorf("expected input order preserved, got %v", resolved)
	}
	for _, p := range resolved {
		if !filepath.IsAbs(p) {
			t.Errorf("expected absolute path, got %q", p)
		}
	}
}

func TestResolveFontsAllOrNothing(t *testing.T) {
	dir := fontsDir(t, "a.ttf")

	resolved, err := ResolveFonts(dir, []string{"a.ttf", "missing.ttf"})
	if err == nil {
		t.Fatal("expected failure when any font is missing")
	}
	if resolved != nil {
		t.Errorf("expected no partial result, got %v", resolved)
	}
}
