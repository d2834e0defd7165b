package design

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-kintone-schema/pkg/kintone"
)

const (
	FieldsFile = "app_form_fields.json"
	LayoutFile = "app_form_layout.json"
)

// App holds the documents found for one app directory.
type App struct {
	Name        string
	Environment string
	Fields      kintone.FieldsDocument
	// Layout is nil when no usable layout document exists.
	Layout       []kintone.LayoutNode
	FieldsSource string
	LayoutSource string
}

// Warning records a document that was skipped.
type Warning struct {
	App  string `json:"app"`
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Result is the outcome of a Load call. Apps are sorted by name.
type Result struct {
	Apps     []App
	Warnings []Warning
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvironment restricts loading to <app>/<env>/ documents.
func WithEnvironment(env string) Option {
	return func(l *Loader) {
		l.environment = strings.TrimSpace(env)
	}
}

// WithLogger sets the logger used for skipped documents.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader walks a design tree.
type Loader struct {
	environment string
	logger      *slog.Logger
}

// NewLoader builds a Loader.
func NewLoader(options ...Option) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

type layoutSource struct {
	nodes []kintone.LayoutNode
	path  string
}

type entry struct {
	app       App
	hasFields bool
	// layouts is keyed by environment; "" is the app root.
	layouts map[string]layoutSource
}

// Load walks fsys and decodes every form document. Malformed documents are
// reported as warnings; only walk failures and cancellation are errors.
func (l *Loader) Load(ctx context.Context, fsys fs.FS) (Result, error) {
	var result Result
	if fsys == nil {
		return result, nil
	}

	entries := make(map[string]*entry)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == "." && errors.Is(walkErr, fs.ErrNotExist) {
				l.logger.Warn("design directory does not exist, no apps loaded")
				return fs.SkipAll
			}
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := path.Base(p)
		if name != FieldsFile && name != LayoutFile {
			return nil
		}
		app, env, ok := l.locate(p)
		if !ok {
			return nil
		}

		e := entries[app]
		if e == nil {
			e = &entry{app: App{Name: app}}
			entries[app] = e
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			result.Warnings = append(result.Warnings, l.warn(app, p, err))
			return nil
		}

		switch name {
		case FieldsFile:
			doc, err := kintone.DecodeFields(data)
			if err != nil {
				result.Warnings = append(result.Warnings, l.warn(app, p, err))
				return nil
			}
			e.app.Fields = doc
			e.app.FieldsSource = p
			e.app.Environment = env
			e.hasFields = true
		case LayoutFile:
			doc, err := kintone.DecodeLayout(data)
			if err != nil {
				result.Warnings = append(result.Warnings, l.warn(app, p, err))
				return nil
			}
			if e.layouts == nil {
				e.layouts = make(map[string]layoutSource)
			}
			e.layouts[env] = layoutSource{nodes: doc.Layout, path: p}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("design: walk: %w", err)
	}

	names := make([]string, 0, len(entries))
	for name, e := range entries {
		if !e.hasFields {
			l.logger.Warn("app has no fields document", "app", name)
			continue
		}
		if layout, ok := e.layouts[e.app.Environment]; ok {
			e.app.Layout = layout.nodes
			e.app.LayoutSource = layout.path
		} else if len(e.layouts) > 0 {
			l.logger.Warn("layout document ignored, no layout in the fields environment",
				"app", name, "environment", e.app.Environment)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		result.Apps = append(result.Apps, entries[name].app)
	}
	return result, nil
}

// locate splits p into app name and environment, applying the filter.
func (l *Loader) locate(p string) (app, env string, ok bool) {
	parts := strings.Split(p, "/")
	switch len(parts) {
	case 2:
		app = parts[0]
	case 3:
		app, env = parts[0], parts[1]
	default:
		return "", "", false
	}
	if l.environment != "" && env != l.environment {
		return "", "", false
	}
	return app, env, true
}

func (l *Loader) warn(app, p string, err error) Warning {
	l.logger.Warn("skipping design document", "app", app, "path", p, "error", err)
	return Warning{App: app, Path: p, Err: err}
}
