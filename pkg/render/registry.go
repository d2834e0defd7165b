package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRenderer reports a lookup for a name nobody registered.
var ErrUnknownRenderer = errors.New("render: unknown renderer")

// Registry holds the output renderers of one generation run, keyed by name
// and kept in registration order.
type Registry struct {
	order  []string
	byName map[string]Renderer
}

// NewRegistry creates a registry holding the given renderers.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{byName: make(map[string]Renderer, len(renderers))}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a renderer under its Name.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}
	if r.byName == nil {
		r.byName = make(map[string]Renderer)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	renderer, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, name)
	}
	return renderer, nil
}

// List returns renderer names in registration order.
func (r *Registry) List() []string {
	return append([]string(nil), r.order...)
}

// Select resolves names into renderers. No names selects every renderer.
// Comma separated entries are split, so "html,markdown" works straight from
// a flag.
func (r *Registry) Select(names ...string) ([]Renderer, error) {
	var wanted []string
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if part = strings.TrimSpace(part); part != "" {
				wanted = append(wanted, part)
			}
		}
	}
	if len(wanted) == 0 {
		wanted = r.order
	}

	out := make([]Renderer, 0, len(wanted))
	for _, name := range wanted {
		renderer, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, renderer)
	}
	return out, nil
}
