package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-kintone-schema/pkg/category"
	"github.com/goliatone/go-kintone-schema/pkg/design"
	"github.com/goliatone/go-kintone-schema/pkg/extract"
	"github.com/goliatone/go-kintone-schema/pkg/model"
	"github.com/goliatone/go-kintone-schema/pkg/registry"
	"github.com/goliatone/go-kintone-schema/pkg/relations"
	"github.com/goliatone/go-kintone-schema/pkg/render"
	"github.com/goliatone/go-kintone-schema/pkg/renderers/html"
	"github.com/goliatone/go-kintone-schema/pkg/renderers/markdown"
)

// Orchestrator coordinates the pipeline from design files to rendered
// documentation. Missing collaborators fall back to the built-in ones.
type Orchestrator struct {
	logger          *slog.Logger
	extractOptions  []extract.Option
	relationOptions []relations.Option
	rules           []category.Rule
	rulesSet        bool
	renderers       *render.Registry
	now             func() time.Time
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one documentation run.
type Request struct {
	// Design is the apps directory holding <app>/<env>/app_form_*.json.
	Design fs.FS
	// Environment limits loading to one environment directory.
	Environment string
	// Registry supplies categories, titles and explicit assignments. A nil,
	// missing or unreadable registry falls back to the default categories.
	Registry registry.Store
	Title    string
}

// Generate loads every app, extracts its fields and infers relationships.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (model.Document, error) {
	if ctx == nil {
		return model.Document{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}
	if req.Design == nil {
		return model.Document{}, errors.New("orchestrator: design filesystem is required")
	}

	doc := model.Document{
		Title:       req.Title,
		Environment: req.Environment,
		GeneratedAt: o.now().UTC(),
	}

	reg, categories, warning := o.loadRegistry(ctx, req.Registry)
	if warning != "" {
		doc.Warnings = append(doc.Warnings, warning)
	}

	loader := design.NewLoader(design.WithEnvironment(req.Environment), design.WithLogger(o.logger))
	loaded, err := loader.Load(ctx, req.Design)
	if err != nil {
		return model.Document{}, fmt.Errorf("orchestrator: load design: %w", err)
	}
	for _, w := range loaded.Warnings {
		doc.Warnings = append(doc.Warnings, w.String())
	}

	classifierOptions := []category.Option{
		category.WithAssignments(reg.Assignments()...),
		category.WithLogger(o.logger),
	}
	if o.rulesSet {
		classifierOptions = append(classifierOptions, category.WithRules(o.rules...))
	}
	classifier := category.NewClassifier(classifierOptions...)

	table := relations.NewFrequencyTable()
	titles := make([]string, 0, len(loaded.Apps))
	for _, app := range loaded.Apps {
		title := app.Name
		if entry, err := reg.App(app.Name); err == nil && entry.Name != "" {
			title = entry.Name
		}

		options := append([]extract.Option{extract.WithLogger(o.logger.With("app", app.Name))}, o.extractOptions...)
		result := extract.Extract(&app.Fields.Properties, app.Layout, options...)

		doc.Apps = append(doc.Apps, model.App{
			Name:        app.Name,
			Title:       title,
			Category:    classifier.Classify(app.Name, title),
			Environment: app.Environment,
			Fields:      result.Fields,
			Groups:      result.Groups,
			Diagnostics: result.Diagnostics,
		})
		titles = append(titles, title)
		table.Add(app.Name, result.Fields)
	}

	for i, slug := range model.Slugs(titles) {
		doc.Apps[i].Slug = slug
	}

	doc.Relationships = relations.Infer(table, o.relationOptions...)
	doc.Categories = groupCategories(doc.Apps, categories)
	doc.Frequency = sharedFields(table.Entries())
	doc.CommonFields = sharedFields(table.Common())
	doc.Stats = model.ComputeStats(doc.Apps, len(doc.Relationships))

	o.logger.Info("schema document generated",
		"apps", doc.Stats.Apps,
		"fields", doc.Stats.Fields,
		"relationships", doc.Stats.Relationships,
		"warnings", len(doc.Warnings),
	)
	return doc, nil
}

// Render runs the selected renderers (all of them when names is empty) and
// writes their output into outDir. It returns the written paths.
func (o *Orchestrator) Render(ctx context.Context, doc model.Document, outDir string, options render.RenderOptions, names ...string) ([]string, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if o.renderers == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	selected, err := o.renderers.Select(names...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("orchestrator: create output dir: %w", err)
	}

	written := make([]string, 0, len(selected))
	for _, renderer := range selected {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		out, err := renderer.Render(ctx, doc, options)
		if err != nil {
			return written, fmt.Errorf("orchestrator: render %s: %w", renderer.Name(), err)
		}
		target := filepath.Join(outDir, renderer.FileName())
		if err := os.WriteFile(target, out, 0o644); err != nil {
			return written, fmt.Errorf("orchestrator: write %s: %w", target, err)
		}
		o.logger.Info("wrote output", "renderer", renderer.Name(), "path", target, "bytes", len(out))
		written = append(written, target)
	}
	return written, nil
}

func (o *Orchestrator) loadRegistry(ctx context.Context, store registry.Store) (*registry.Registry, category.Categories, string) {
	empty := &registry.Registry{Apps: map[string]registry.App{}}
	if store == nil {
		return empty, category.DefaultCategories(), ""
	}

	reg, err := store.Load(ctx)
	if err != nil {
		o.logger.Warn("registry unavailable, using default categories", "error", err)
		return empty, category.DefaultCategories(), fmt.Sprintf("registry: %v (default categories used)", err)
	}
	if len(reg.Categories) == 0 {
		o.logger.Warn("registry declares no categories, using defaults")
		return reg, category.DefaultCategories(), ""
	}
	o.logger.Debug("loaded categories from registry", "count", len(reg.Categories))
	return reg, reg.Categories, ""
}

func (o *Orchestrator) applyDefaults() {
	if o.renderers != nil {
		return
	}
	htmlRenderer, err := html.New()
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default html renderer: %w", err)
		return
	}
	markdownRenderer, err := markdown.New(markdown.WithHTMLFileName(htmlRenderer.FileName()))
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default markdown renderer: %w", err)
		return
	}
	o.renderers, o.initialiseErr = render.NewRegistry(htmlRenderer, markdownRenderer)
}

// groupCategories lists categories in the order apps first use them.
func groupCategories(apps []model.App, table category.Categories) []model.Category {
	index := make(map[string]int)
	var out []model.Category
	for _, app := range apps {
		i, ok := index[app.Category]
		if !ok {
			info, known := table[app.Category]
			i = len(out)
			index[app.Category] = i
			out = append(out, model.Category{
				Key:         app.Category,
				Name:        table.Name(app.Category),
				Description: info.Description,
				Known:       known,
			})
		}
		out[i].Apps = append(out[i].Apps, app.Name)
	}
	return out
}

func sharedFields(entries []relations.FieldFrequency) []model.SharedField {
	out := make([]model.SharedField, 0, len(entries))
	for _, entry := range entries {
		apps := make([]string, 0, len(entry.Occurrences))
		for _, occ := range entry.Occurrences {
			apps = append(apps, occ.App)
		}
		out = append(out, model.SharedField{Code: entry.Code, Count: entry.Count(), Apps: apps})
	}
	return out
}
