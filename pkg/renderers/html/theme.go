package html

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	DefaultThemeName = "kintone-schema"

	// PartialPage and PartialStyles name the templates a manifest can
	// override.
	PartialPage   = "schema.page"
	PartialStyles = "schema.styles"
)

// colorSchemes are the card backgrounds assigned to categories in order.
var colorSchemes = [][2]string{
	{"linear-gradient(135deg, #e1f5fe 0%, #f0f8ff 100%)", "#0288d1"},
	{"linear-gradient(135deg, #f3e5f5 0%, #faf0fb 100%)", "#7b1fa2"},
	{"linear-gradient(135deg, #e8f5e8 0%, #f0faf0 100%)", "#388e3c"},
	{"linear-gradient(135deg, #fff3e0 0%, #fffaf5 100%)", "#f57c00"},
	{"linear-gradient(135deg, #fce4ec 0%, #fef7f9 100%)", "#c2185b"},
	{"linear-gradient(135deg, #e8eaf6 0%, #f3e5f5 100%)", "#5e35b1"},
	{"linear-gradient(135deg, #f1f8e9 0%, #f9fbe7 100%)", "#689f38"},
	{"linear-gradient(135deg, #f5f5f5 0%, #fafafa 100%)", "#757575"},
}

// DefaultManifest describes the built-in look. The "print" variant drops the
// page background and shadows.
func DefaultManifest() *theme.Manifest {
	tokens := map[string]string{
		"page-bg":      "#f8f9fa",
		"surface":      "#ffffff",
		"text":         "#2c3e50",
		"muted":        "#7f8c8d",
		"accent":       "#3498db",
		"stat-bg":      "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
		"card-shadow":  "0 4px 20px rgba(0,0,0,0.1)",
		"subtable":     "#e67e22",
		"multi-field":  "#27ae60",
		"required":     "#e74c3c",
		"unique":       "#8e44ad",
		"relationship": "#f8f9fa",
	}
	for i, scheme := range colorSchemes {
		tokens[schemeToken(i+1, "bg")] = scheme[0]
		tokens[schemeToken(i+1, "border")] = scheme[1]
	}

	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens:  tokens,
		Templates: map[string]string{
			PartialPage:   "templates/page.tmpl",
			PartialStyles: "templates/styles.tmpl",
		},
		Variants: map[string]theme.Variant{
			"print": {
				Tokens: map[string]string{
					"page-bg":     "#ffffff",
					"card-shadow": "none",
					"stat-bg":     "#555555",
				},
			},
		},
	}
}

func schemeToken(n int, part string) string {
	return fmt.Sprintf("scheme-%d-%s", n, part)
}

// schemeCount reports how many consecutive scheme-N-bg tokens exist.
func schemeCount(tokens map[string]string) int {
	n := 0
	for {
		if _, ok := tokens[schemeToken(n+1, "bg")]; !ok {
			return n
		}
		n++
	}
}

// rendererConfig flattens a selection into the tokens, CSS variables,
// partials and asset resolver the templates use. Variant values override
// base values.
func rendererConfig(selection *theme.Selection) (*theme.RendererConfig, error) {
	if selection == nil || selection.Manifest == nil {
		return nil, errors.New("html renderer: theme selection has no manifest")
	}
	manifest := selection.Manifest

	tokens := copyMap(manifest.Tokens)
	partials := copyMap(manifest.Templates)
	assets := copyMap(manifest.Assets.Files)

	if selection.Variant != "" {
		variant, ok := manifest.Variants[selection.Variant]
		if !ok {
			return nil, fmt.Errorf("html renderer: theme %q has no variant %q", manifest.Name, selection.Variant)
		}
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		for key, value := range variant.Templates {
			partials[key] = value
		}
		for key, value := range variant.Assets.Files {
			assets[key] = value
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := manifest.Assets.Prefix
	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := assets[key]
			if !ok {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}, nil
}

type cssVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func sortedCSSVars(vars map[string]string) []cssVar {
	out := make([]cssVar, 0, len(vars))
	for name, value := range vars {
		out = append(out, cssVar{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// cssClass keeps category keys usable as class names.
func cssClass(key string, index int) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	class := b.String()
	if class == "" || (class[0] >= '0' && class[0] <= '9') {
		return fmt.Sprintf("category-%d", index+1)
	}
	return class
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
