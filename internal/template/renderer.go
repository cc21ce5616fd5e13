// Package template expands {{ var }} placeholders in HTML text. Expansion is
// HTML-safe: every interpolated value is entity-escaped unless the template
// pipes it through |safe. Template text is untrusted; the engine must never
// touch the filesystem on its behalf.
package template

import (
	"fmt"
	"io"

	"github.com/flosch/pongo2/v6"
)

// fileTags are the pongo2 tags that pull other templates or files into the
// output. All of them are banned: a template arriving over the network must
// not be able to read server files.
var fileTags = []string{"extends", "import", "include", "ssi"}

// sandboxLoader refuses every template path. The file-reading tags are banned
// outright; this loader is the backstop should any other code path ask the
// set to load something.
type sandboxLoader struct{}

func (sandboxLoader) Abs(base, name string) string { return name }

func (sandboxLoader) Get(path string) (io.Reader, error) {
	return nil, fmt.Errorf("template loading from %q is not allowed", path)
}

// Renderer wraps a pongo2 template set. It holds no per-request state and is
// safe for concurrent use.
type Renderer struct {
	set *pongo2.TemplateSet
}

// NewRenderer creates a renderer with HTML autoescaping enabled and the
// filesystem-reaching tags disabled.
func NewRenderer() *Renderer {
	// Autoescaping is pongo2's default; pin it explicitly.
	pongo2.SetAutoescape(true)

	set := pongo2.NewSet("html2img", sandboxLoader{})
	for _, tag := range fileTags {
		if err := set.BanTag(tag); err != nil {
			panic(fmt.Sprintf("failed to ban template tag %q: %v", tag, err))
		}
	}
	return &Renderer{set: set}
}

// Render expands the template against the given context and returns the
// resulting HTML. Failures are caused by the template text or the context the
// caller supplied, never by server state.
func (r *Renderer) Render(template string, context map[string]any) (string, error) {
	tpl, err := r.set.FromString(template)
	if err != nil {
		return "", fmt.Errorf("failed to register template: %w", err)
	}

	html, err := tpl.Execute(pongo2.Context(context))
	if err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return html, nil
}
