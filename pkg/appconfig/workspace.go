package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound = errors.New("appconfig: app config not found")
	ErrConfigExists   = errors.New("appconfig: app config already exists")
)

// Workspace reads and writes app configs under a design directory.
type Workspace struct {
	designDir string
}

// NewWorkspace returns a Workspace rooted at designDir (usually "design").
func NewWorkspace(designDir string) *Workspace {
	return &Workspace{designDir: designDir}
}

func (w *Workspace) appsDir() string { return filepath.Join(w.designDir, "apps") }

func (w *Workspace) configPath(app string) string {
	return filepath.Join(w.appsDir(), app, ConfigFile)
}

// LoadAll returns every app directory in name order. A missing apps
// directory yields no apps.
func (w *Workspace) LoadAll() ([]App, error) {
	entries, err := os.ReadDir(w.appsDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("appconfig: read %s: %w", w.appsDir(), err)
	}

	var apps []App
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		app := App{Name: e.Name()}
		cfg, err := w.Load(e.Name())
		switch {
		case err == nil:
			app.Config = &cfg
		case !errors.Is(err, ErrConfigNotFound):
			return nil, err
		}
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	return apps, nil
}

// Load reads the config of one app.
func (w *Workspace) Load(app string) (Config, error) {
	path := w.configPath(app)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, app)
	}
	if err != nil {
		return Config{}, fmt.Errorf("appconfig: read %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("appconfig: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Filter keeps the configured apps matching c. Apps without a config never
// match a non-empty criteria.
func Filter(apps []App, c Criteria) []App {
	if c.IsZero() {
		return apps
	}
	var out []App
	for _, app := range apps {
		if app.Config != nil && c.Match(*app.Config) {
			out = append(out, app)
		}
	}
	return out
}

// Names returns the app names.
func Names(apps []App) []string {
	out := make([]string, 0, len(apps))
	for _, app := range apps {
		out = append(out, app.Name)
	}
	return out
}

// EnabledNames returns the names of apps whose config enables them.
func EnabledNames(apps []App) []string {
	var out []string
	for _, app := range apps {
		if app.Config != nil && app.Config.IsEnabled() {
			out = append(out, app.Name)
		}
	}
	return out
}

// Status reports ids, domains and exported files per environment.
func (w *Workspace) Status(app string) (Status, error) {
	cfg, err := w.Load(app)
	if err != nil {
		return Status{}, err
	}
	status := Status{App: app}
	for _, env := range Environments {
		s := EnvStatus{Environment: env}
		if e, ok := cfg.Environments[env]; ok {
			s.AppID = string(e.AppID)
			s.Domain = e.Domain
			s.LastExported = deref(e.LastExported)
			s.LastImported = deref(e.LastImported)
		}
		entries, err := os.ReadDir(filepath.Join(w.appsDir(), app, env))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Status{}, fmt.Errorf("appconfig: read %s files: %w", env, err)
		}
		for _, entry := range entries {
			s.Files = append(s.Files, entry.Name())
		}
		status.Environments = append(status.Environments, s)
	}
	return status, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create scaffolds design/apps/<app> with dev and prod directories and a new
// config. An existing config is never overwritten.
func (w *Workspace) Create(app, devID, prodID, description string) (string, error) {
	if app == "" {
		return "", errors.New("appconfig: app name is required")
	}
	path := w.configPath(app)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrConfigExists, app)
	}

	appDir := filepath.Dir(path)
	for _, env := range Environments {
		if err := os.MkdirAll(filepath.Join(appDir, env), 0o755); err != nil {
			return "", fmt.Errorf("appconfig: create %s: %w", env, err)
		}
	}

	if description == "" {
		description = app + "アプリの設計情報"
	}
	enabled := true
	cfg := Config{
		AppName:     app,
		Description: description,
		Enabled:     &enabled,
		Environments: map[string]EnvConfig{
			"dev":  {AppID: AppID(devID), Domain: "${KINTONE_DEV_DOMAIN}"},
			"prod": {AppID: AppID(prodID), Domain: "${KINTONE_PROD_DOMAIN}"},
		},
		Files: map[string]string{
			"fields":   "fields.json",
			"layout":   "layout.json",
			"views":    "views.json",
			"settings": "settings.json",
		},
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("appconfig: write %s: %w", path, err)
	}
	return appDir, nil
}

// LoadGroups reads app-groups.json, falling back to app-groups.yaml. Neither
// file present yields empty groups.
func (w *Workspace) LoadGroups() (Groups, error) {
	candidates := []string{"app-groups.json", "app-groups.yaml", "app-groups.yml"}
	for _, name := range candidates {
		path := filepath.Join(w.designDir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Groups{}, fmt.Errorf("appconfig: read %s: %w", path, err)
		}
		var groups Groups
		if filepath.Ext(name) == ".json" {
			err = json.Unmarshal(data, &groups)
		} else {
			err = yaml.Unmarshal(data, &groups)
		}
		if err != nil {
			return Groups{}, fmt.Errorf("appconfig: decode %s: %w", path, err)
		}
		return groups, nil
	}
	return Groups{AppGroups: map[string]Group{}}, nil
}
