package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound reports a missing registry document.
var ErrNotFound = errors.New("registry: document not found")

// Store loads and persists a Registry.
type Store interface {
	Load(ctx context.Context) (*Registry, error)
	Save(ctx context.Context, reg *Registry) error
}

// Format selects the on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FileStore keeps the registry in a single file.
type FileStore struct {
	path   string
	format Format
}

// NewFileStore returns a store for path. The format follows the extension:
// .yaml and .yml use YAML, everything else JSON.
func NewFileStore(path string) *FileStore {
	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	return &FileStore{path: path, format: format}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the registry file.
func (s *FileStore) Load(ctx context.Context) (*Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("registry: read %s: %w", s.path, err)
	}
	reg, err := Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", s.path, err)
	}
	return reg, nil
}

// Save encodes the registry and replaces the file.
func (s *FileStore) Save(ctx context.Context, reg *Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if reg == nil {
		return errors.New("registry: nil registry")
	}
	data, err := Encode(reg, s.format)
	if err != nil {
		return fmt.Errorf("registry: encode %s: %w", s.path, err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("registry: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("registry: write %s: %w", s.path, err)
	}
	return nil
}

// Update loads the registry, applies fn and saves the result. Nothing is
// written when fn fails.
func Update(ctx context.Context, store Store, fn func(*Registry) error) error {
	reg, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(reg); err != nil {
		return err
	}
	return store.Save(ctx, reg)
}

// Decode parses a registry document.
func Decode(data []byte, format Format) (*Registry, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("registry: document is empty")
	}
	var reg Registry
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &reg); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &reg); err != nil {
			return nil, err
		}
	}
	if reg.Apps == nil {
		reg.Apps = make(map[string]App)
	}
	return &reg, nil
}

// Encode serialises a registry document.
func Encode(reg *Registry, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(reg)
	default:
		data, err := json.MarshalIndent(reg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// MemoryStore keeps a registry in memory. It is useful for tests and dry runs.
type MemoryStore struct {
	Registry *Registry
	Saves    int
}

// Load returns the held registry.
func (m *MemoryStore) Load(ctx context.Context) (*Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Registry == nil {
		return nil, ErrNotFound
	}
	return m.Registry, nil
}

// Save replaces the held registry.
func (m *MemoryStore) Save(ctx context.Context, reg *Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Registry = reg
	m.Saves++
	return nil
}
