package appconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// ConfigFile is the per-app config file name.
const ConfigFile = "app.config.json"

// Environments reported by Status, in display order.
var Environments = []string{"dev", "prod"}

// AppID accepts both "125" and 125 in config files.
type AppID string

func (id *AppID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = AppID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("appconfig: app id: %w", err)
	}
	*id = AppID(n.String())
	return nil
}

// Config mirrors app.config.json.
type Config struct {
	AppName      string               `json:"appName"`
	Description  string               `json:"description,omitempty"`
	Enabled      *bool                `json:"enabled,omitempty"`
	Tags         []string             `json:"tags,omitempty"`
	Priority     *int                 `json:"priority,omitempty"`
	Environments map[string]EnvConfig `json:"environments"`
	Files        map[string]string    `json:"files,omitempty"`
}

// EnvConfig binds the app to one environment.
type EnvConfig struct {
	AppID        AppID   `json:"appId"`
	Domain       string  `json:"domain,omitempty"`
	Enabled      *bool   `json:"enabled,omitempty"`
	LastExported *string `json:"lastExported"`
	LastImported *string `json:"lastImported"`
}

// IsEnabled is true only for an explicit "enabled": true.
func (c Config) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}

// AvailableIn reports whether the app is bound to env and not disabled there.
func (c Config) AvailableIn(env string) bool {
	e, ok := c.Environments[env]
	if !ok {
		return false
	}
	return e.Enabled == nil || *e.Enabled
}

// App is a directory under design/apps. Config is nil when the directory has
// no config file.
type App struct {
	Name   string
	Config *Config
}

// Criteria narrows LoadAll results. Zero values match everything.
type Criteria struct {
	Enabled     *bool
	Tags        []string
	Priority    *int
	Environment string
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.Enabled == nil && len(c.Tags) == 0 && c.Priority == nil && c.Environment == ""
}

// Match applies the criteria to a config. Tags match when any tag is shared.
func (c Criteria) Match(cfg Config) bool {
	if c.Enabled != nil && cfg.IsEnabled() != *c.Enabled {
		return false
	}
	if len(c.Tags) > 0 && !slices.ContainsFunc(c.Tags, func(tag string) bool {
		return slices.Contains(cfg.Tags, tag)
	}) {
		return false
	}
	if c.Priority != nil && (cfg.Priority == nil || *cfg.Priority != *c.Priority) {
		return false
	}
	if c.Environment != "" && !cfg.AvailableIn(c.Environment) {
		return false
	}
	return true
}

// ParsePriority converts a --priority flag value.
func ParsePriority(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("appconfig: invalid priority %q: %w", s, err)
	}
	return &n, nil
}

// Group is a named set of apps.
type Group struct {
	Description string   `json:"description" yaml:"description"`
	Apps        []string `json:"apps" yaml:"apps"`
}

// Groups mirrors design/app-groups.json.
type Groups struct {
	AppGroups    map[string]Group `json:"appGroups" yaml:"appGroups"`
	DefaultGroup string           `json:"defaultGroup,omitempty" yaml:"defaultGroup,omitempty"`
}

// Names lists the group names in sorted order.
func (g Groups) Names() []string {
	out := make([]string, 0, len(g.AppGroups))
	for name := range g.AppGroups {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Members returns the apps of group that are also in names.
func (g Groups) Members(group string, names []string) []string {
	var out []string
	for _, app := range g.AppGroups[group].Apps {
		if slices.Contains(names, app) {
			out = append(out, app)
		}
	}
	return out
}

// EnvStatus describes one environment of an app.
type EnvStatus struct {
	Environment  string
	AppID        string
	Domain       string
	Files        []string
	LastExported string
	LastImported string
}

// HasFiles reports whether design files were exported.
func (s EnvStatus) HasFiles() bool { return len(s.Files) > 0 }

// Status is the per-environment overview of an app.
type Status struct {
	App          string
	Environments []EnvStatus
}
