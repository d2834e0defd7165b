package html

import (
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// ThemeFile is the on-disk form of a colour override:
//
//	name: school
//	tokens:
//	  accent: "#0b7285"
//	  scheme-1-bg: "#e3fafc"
//	variants:
//	  print:
//	    tokens:
//	      page-bg: "#ffffff"
//
// Tokens not listed keep their built-in values. JSON is accepted as well.
type ThemeFile struct {
	Name     string                      `yaml:"name"`
	Tokens   map[string]string           `yaml:"tokens"`
	Variants map[string]ThemeFileVariant `yaml:"variants"`
}

type ThemeFileVariant struct {
	Tokens map[string]string `yaml:"tokens"`
}

// LoadThemeFile reads path and merges it over DefaultManifest.
func LoadThemeFile(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("html renderer: read theme file: %w", err)
	}
	var file ThemeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("html renderer: parse theme file %s: %w", path, err)
	}
	return file.Manifest(), nil
}

// Manifest applies the overrides to a copy of DefaultManifest.
func (f ThemeFile) Manifest() *theme.Manifest {
	manifest := DefaultManifest()
	if f.Name != "" {
		manifest.Name = f.Name
	}
	for key, value := range f.Tokens {
		manifest.Tokens[key] = value
	}
	for name, override := range f.Variants {
		variant := manifest.Variants[name]
		tokens := copyMap(variant.Tokens)
		for key, value := range override.Tokens {
			tokens[key] = value
		}
		variant.Tokens = tokens
		manifest.Variants[name] = variant
	}
	return manifest
}
