package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderInterpolatesContext(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("<h1>Hello {{ name }}</h1>", map[string]any{"name": "World"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out != "<h1>Hello World</h1>" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRenderEscapesHTMLByDefault(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("<div>{{ payload }}</div>", map[string]any{
		"payload": `<script>alert("xss")</script>`,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("expected script tag to be escaped, got %q", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected entity-escaped markup, got %q", out)
	}
}

func TestRenderSafeFilterBypassesEscaping(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("<div>{{ markup|safe }}</div>", map[string]any{
		"markup": "<b>bold</b>",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.Contains(out, "<b>bold</b>") {
		t.Errorf("expected |safe to pass markup through, got %q", out)
	}
}

func TestRenderMissingVariableIsEmpty(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("<p>[{{ absent }}]</p>", map[string]any{})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out != "<p>[]</p>" {
		t.Errorf("expected missing variables to expand to nothing, got %q", out)
	}
}

func TestRenderFileTagsRejected(t *testing.T) {
	secret := filepath.Join(t.TempDir(), "secret.txt")
	if err := os.WriteFile(secret, []byte("server-only-contents"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewRenderer()

	tests := []struct {
		name     string
		template string
	}{
		{"include", `{% include "` + secret + `" %}`},
		{"ssi", `{% ssi "` + secret + `" %}`},
		{"ssi parsed", `{% ssi "` + secret + `" parsed %}`},
		{"extends", `{% extends "` + secret + `" %}`},
		{"import", `{% import "` + secret + `" macro %}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.template, map[string]any{})
			if err == nil {
				t.Fatal("expected file-reading tag to be rejected")
			}
			if strings.Contains(out, "server-only-contents") {
				t.Fatalf("file contents leaked into output %q", out)
			}
		})
	}
}

func TestRenderReportsSyntaxErrors(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		template string
	}{
		{"unclosed tag", "{% if x"},
		{"unknown tag", "{% frobnicate %}"},
		{"unclosed variable", "{{ name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Render(tt.template, map[string]any{}); err == nil {
				t.Error("expected syntax error")
			}
		})
	}
}
