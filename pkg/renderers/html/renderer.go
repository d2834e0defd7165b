package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-kintone-schema/pkg/model"
	"github.com/goliatone/go-kintone-schema/pkg/render"
	rendertemplate "github.com/goliatone/go-kintone-schema/pkg/render/template"
	gotemplate "github.com/goliatone/go-kintone-schema/pkg/render/template/gotemplate"
)

const (
	Name     = "html"
	FileName = "kintone_apps_schema.html"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	manifest         *theme.Manifest
	selector         theme.ThemeSelector
	themeName        string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir reads templates from a directory laid out like the
// embedded bundle (templates/page.tmpl, templates/styles.tmpl). Files missing
// from the directory fall back to the embedded ones.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = overlayFS{primary: os.DirFS(path), fallback: TemplatesFS()}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithManifest replaces the built-in theme manifest.
func WithManifest(manifest *theme.Manifest) Option {
	return func(cfg *config) {
		if manifest != nil {
			cfg.manifest = manifest
		}
	}
}

// WithThemeSelector resolves the theme through selector instead of the
// local manifest. name is passed to every Select call.
func WithThemeSelector(selector theme.ThemeSelector, name string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
	}
}

// Renderer writes the schema page.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	manifest  *theme.Manifest
	selector  theme.ThemeSelector
	themeName string
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), manifest: DefaultManifest()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		manifest:  cfg.manifest,
		selector:  cfg.selector,
		themeName: cfg.themeName,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) FileName() string {
	return FileName
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, doc model.Document, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	cfg, err := r.themeConfig(options.Variant)
	if err != nil {
		return nil, err
	}

	page := buildPage(doc, options, schemeCount(cfg.Tokens))

	styles, err := r.templates.RenderTemplate(partial(cfg, PartialStyles), map[string]any{
		"vars":       sortedCSSVars(cfg.CSSVars),
		"categories": page.Categories,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render styles: %w", err)
	}

	result, err := r.templates.RenderTemplate(partial(cfg, PartialPage), map[string]any{
		"page":   page,
		"styles": styles,
		"theme":  map[string]string{"name": cfg.Theme, "variant": cfg.Variant},
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) themeConfig(variant string) (*theme.RendererConfig, error) {
	var selection *theme.Selection
	if r.selector != nil {
		selected, err := r.selector.Select(r.themeName, variant)
		if err != nil {
			return nil, fmt.Errorf("html renderer: select theme: %w", err)
		}
		selection = selected
	} else {
		selection = &theme.Selection{Theme: r.manifest.Name, Variant: variant, Manifest: r.manifest}
	}
	return rendererConfig(selection)
}

// partial resolves a template name from the theme, falling back to the
// built-in template for that role.
func partial(cfg *theme.RendererConfig, role string) string {
	if name, ok := cfg.Partials[role]; ok && name != "" {
		return name
	}
	return DefaultManifest().Templates[role]
}
