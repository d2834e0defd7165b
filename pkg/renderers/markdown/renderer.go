package markdown

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-kintone-schema/pkg/model"
	"github.com/goliatone/go-kintone-schema/pkg/relations"
	"github.com/goliatone/go-kintone-schema/pkg/render"
	rendertemplate "github.com/goliatone/go-kintone-schema/pkg/render/template"
	gotemplate "github.com/goliatone/go-kintone-schema/pkg/render/template/gotemplate"
)

const (
	Name     = "markdown"
	FileName = "README.md"

	// DefaultCommonFields bounds the shared field table.
	DefaultCommonFields = 20
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// plain strips any markup from free text taken from registries and apps.
func plain(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(raw))
}

type Option func(*Renderer)

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(r *Renderer) {
		if renderer != nil {
			r.templates = renderer
		}
	}
}

// WithHTMLFileName sets the page name referenced from the guide.
func WithHTMLFileName(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.htmlFile = name
		}
	}
}

// WithCommonFieldLimit bounds the shared field table. Zero hides it.
func WithCommonFieldLimit(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.commonLimit = n
		}
	}
}

// Renderer writes README.md.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	htmlFile    string
	commonLimit int
}

// New constructs the Markdown renderer.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{htmlFile: "kintone_apps_schema.html", commonLimit: DefaultCommonFields}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.templates == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("markdown renderer: templates: %w", err)
		}
		engine, err := gotemplate.New(gotemplate.WithFS(sub), gotemplate.WithExtension(".tmpl"))
		if err != nil {
			return nil, fmt.Errorf("markdown renderer: configure template renderer: %w", err)
		}
		r.templates = engine
	}
	return r, nil
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) FileName() string    { return FileName }
func (r *Renderer) ContentType() string { return "text/markdown; charset=utf-8" }

type categoryView struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Apps        []appView `json:"apps"`
}

type appView struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Fields int    `json:"fields"`
}

type sharedView struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
	Key   bool   `json:"key"`
}

func (r *Renderer) Render(ctx context.Context, doc model.Document, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := plain(doc.Title)
	if title == "" {
		title = "Kintone Apps Schema Documentation"
	}

	var categories []categoryView
	for _, cat := range doc.Categories {
		view := categoryView{Name: plain(cat.Name), Description: plain(cat.Description)}
		for _, app := range doc.AppsIn(cat.Key) {
			appTitle := app.Title
			if appTitle == "" {
				appTitle = app.Name
			}
			view.Apps = append(view.Apps, appView{Name: app.Name, Title: plain(appTitle), Fields: len(app.Fields)})
		}
		categories = append(categories, view)
	}

	var shared []sharedView
	for i, field := range doc.CommonFields {
		if i >= r.commonLimit {
			break
		}
		shared = append(shared, sharedView{Code: field.Code, Count: field.Count, Key: relations.IsKeyField(field.Code)})
	}

	warnings := make([]string, 0, len(doc.Warnings))
	for _, w := range doc.Warnings {
		warnings = append(warnings, plain(w))
	}

	data := map[string]any{
		"title":        title,
		"htmlFile":     r.htmlFile,
		"stats":        doc.Stats,
		"categories":   categories,
		"commonFields": shared,
		"warnings":     warnings,
		"generatedAt":  "",
	}
	if !doc.GeneratedAt.IsZero() {
		data["generatedAt"] = doc.GeneratedAt.Format("2006-01-02 15:04")
	}

	out, err := r.templates.RenderTemplate("guide", data)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: render template: %w", err)
	}
	return []byte(out), nil
}
