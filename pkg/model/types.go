package model

import (
	"time"

	"github.com/goliatone/go-kintone-schema/pkg/extract"
	"github.com/goliatone/go-kintone-schema/pkg/relations"
)

// Document is the aggregate handed to renderers.
type Document struct {
	Title         string           `json:"title"`
	Environment   string           `json:"environment,omitempty"`
	GeneratedAt   time.Time        `json:"generatedAt"`
	Apps          []App            `json:"apps"`
	Categories    []Category       `json:"categories"`
	Frequency     []SharedField    `json:"frequency"`
	CommonFields  []SharedField    `json:"commonFields"`
	Relationships []relations.Edge `json:"relationships"`
	Stats         Stats            `json:"stats"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// App is one documented kintone app.
type App struct {
	// Name is the design directory name and the registry key.
	Name        string               `json:"name"`
	Title       string               `json:"title"`
	Slug        string               `json:"slug"`
	Category    string               `json:"category"`
	Environment string               `json:"environment,omitempty"`
	Fields      []extract.Field      `json:"fields"`
	Groups      []extract.Group      `json:"layoutGroups"`
	Diagnostics []extract.Diagnostic `json:"diagnostics,omitempty"`
}

// Category lists the apps of one category in document order.
type Category struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Known is false when the key is missing from the category table.
	Known bool     `json:"known"`
	Apps  []string `json:"apps"`
}

// SharedField summarises one field code across apps.
type SharedField struct {
	Code  string   `json:"code"`
	Count int      `json:"count"`
	Apps  []string `json:"apps"`
}

// Stats are the headline numbers of a Document.
type Stats struct {
	Apps          int  `json:"apps"`
	Fields        int  `json:"fields"`
	Relationships int  `json:"relationships"`
	AverageFields int  `json:"averageFields"`
	Empty         bool `json:"empty"`
}

// AppsIn returns the apps assigned to key, preserving document order.
func (d Document) AppsIn(key string) []App {
	var out []App
	for _, app := range d.Apps {
		if app.Category == key {
			out = append(out, app)
		}
	}
	return out
}
