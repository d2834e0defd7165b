package registry

import (
	"errors"
	"sort"
	"time"

	"github.com/goliatone/go-kintone-schema/pkg/category"
)

var (
	ErrAppNotFound         = errors.New("registry: app not found")
	ErrAppExists           = errors.New("registry: app already exists")
	ErrEnvironmentNotFound = errors.New("registry: environment not found")
)

// Registry is the decoded apps registry document.
type Registry struct {
	Environments map[string]Environment `json:"environments,omitempty" yaml:"environments,omitempty"`
	Categories   category.Categories    `json:"categories,omitempty" yaml:"categories,omitempty"`
	Apps         map[string]App         `json:"apps" yaml:"apps"`
}

// Environment describes a kintone tenant (dev, prod, ...).
type Environment struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// App is a single managed app.
type App struct {
	Name         string                    `json:"name" yaml:"name"`
	Description  string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Environments map[string]AppEnvironment `json:"environments" yaml:"environments"`
	Category     string                    `json:"category,omitempty" yaml:"category,omitempty"`
	Tags         []string                  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Enabled      *bool                     `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	History      *History                  `json:"history,omitempty" yaml:"history,omitempty"`
}

// IsEnabled treats a missing flag as enabled.
func (a App) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// CategoryOrDefault returns the app category or category.Other.
func (a App) CategoryOrDefault() string {
	if a.Category == "" {
		return category.Other
	}
	return a.Category
}

// AppEnvironment binds an app to its ID within an environment.
type AppEnvironment struct {
	AppID  string `json:"appId" yaml:"appId"`
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// History tracks sync timestamps.
type History struct {
	LastExported *time.Time `json:"lastExported,omitempty" yaml:"lastExported,omitempty"`
	LastImported *time.Time `json:"lastImported,omitempty" yaml:"lastImported,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty" yaml:"lastModified,omitempty"`
}

// Action is a sync direction recorded in history.
type Action string

const (
	ActionPull Action = "pull"
	ActionPush Action = "push"
)

// App returns the entry for key.
func (r *Registry) App(key string) (App, error) {
	if r == nil || r.Apps == nil {
		return App{}, ErrAppNotFound
	}
	app, ok := r.Apps[key]
	if !ok {
		return App{}, ErrAppNotFound
	}
	return app, nil
}

// Keys lists every app key in sorted order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Apps))
	for key := range r.Apps {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Enabled lists the keys of enabled apps in sorted order.
func (r *Registry) Enabled() []string {
	var out []string
	for _, key := range r.Keys() {
		if r.Apps[key].IsEnabled() {
			out = append(out, key)
		}
	}
	return out
}

// HasEnvironment reports whether env is declared. Registries without an
// environments section accept the conventional dev and prod names.
func (r *Registry) HasEnvironment(env string) bool {
	if r == nil || len(r.Environments) == 0 {
		return env == "dev" || env == "prod"
	}
	_, ok := r.Environments[env]
	return ok
}

// AddApp registers a new app, refusing to overwrite an existing key.
func (r *Registry) AddApp(key string, app App) error {
	if key == "" {
		return errors.New("registry: app key is required")
	}
	if r.Apps == nil {
		r.Apps = make(map[string]App)
	}
	if _, exists := r.Apps[key]; exists {
		return ErrAppExists
	}
	if app.Category == "" {
		app.Category = category.Other
	}
	if len(app.Tags) == 0 {
		app.Tags = []string{app.Category}
	}
	if app.Enabled == nil {
		enabled := true
		app.Enabled = &enabled
	}
	r.Apps[key] = app
	return nil
}

// Touch stamps the history of key for the given action.
func (r *Registry) Touch(key string, action Action, now time.Time) error {
	app, err := r.App(key)
	if err != nil {
		return err
	}
	if app.History == nil {
		app.History = &History{}
	}
	ts := now.UTC()
	switch action {
	case ActionPull:
		app.History.LastExported = &ts
	case ActionPush:
		app.History.LastImported = &ts
	}
	app.History.LastModified = &ts
	r.Apps[key] = app
	return nil
}

// Assignments exposes explicit app categories for the classifier.
func (r *Registry) Assignments() []category.Assignment {
	if r == nil {
		return nil
	}
	out := make([]category.Assignment, 0, len(r.Apps))
	for _, key := range r.Keys() {
		app := r.Apps[key]
		out = append(out, category.Assignment{Key: key, Title: app.Name, Category: app.Category})
	}
	return out
}
