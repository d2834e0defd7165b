// Package kintoneschema documents kintone apps from their exported form
// definitions. The pipeline lives in pkg/orchestrator; this package exposes
// the common entry points.
package kintoneschema

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-kintone-schema/pkg/model"
	"github.com/goliatone/go-kintone-schema/pkg/orchestrator"
	"github.com/goliatone/go-kintone-schema/pkg/registry"
	"github.com/goliatone/go-kintone-schema/pkg/render"
	"github.com/goliatone/go-kintone-schema/pkg/renderers/html"
	"github.com/goliatone/go-kintone-schema/pkg/renderers/markdown"
)

// Document is the generated schema document.
type Document = model.Document

// RenderOptions carries per-run presentation choices.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Paths locates the inputs and output of GenerateDocs. Registry may be empty.
type Paths struct {
	AppsDir  string
	Registry string
	Output   string
}

// GenerateDocs reads every app under paths.AppsDir and writes the HTML page
// and README into paths.Output. It returns the written files.
func GenerateDocs(ctx context.Context, paths Paths, title string, options ...orchestrator.Option) ([]string, error) {
	gen := orchestrator.New(options...)
	req := orchestrator.Request{Design: os.DirFS(paths.AppsDir), Title: title}
	if paths.Registry != "" {
		req.Registry = registry.NewFileStore(paths.Registry)
	}
	doc, err := gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return gen.Render(ctx, doc, paths.Output, RenderOptions{})
}

// WithHTMLOptions replaces the default renderers with an HTML renderer built
// from options plus the Markdown guide linking to it.
func WithHTMLOptions(options ...html.Option) (orchestrator.Option, error) {
	htmlRenderer, err := html.New(options...)
	if err != nil {
		return nil, fmt.Errorf("kintoneschema: html renderer: %w", err)
	}
	markdownRenderer, err := markdown.New(markdown.WithHTMLFileName(htmlRenderer.FileName()))
	if err != nil {
		return nil, fmt.Errorf("kintoneschema: markdown renderer: %w", err)
	}
	reg, err := render.NewRegistry(htmlRenderer, markdownRenderer)
	if err != nil {
		return nil, err
	}
	return orchestrator.WithRenderers(reg), nil
}

// WithThemeSelector renders HTML through a go-theme selector instead of the
// built-in manifest.
func WithThemeSelector(selector theme.ThemeSelector, themeName string) (orchestrator.Option, error) {
	return WithHTMLOptions(html.WithThemeSelector(selector, themeName))
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// and extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
