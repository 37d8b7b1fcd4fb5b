package filter

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
)

// ApplyFunc renders one filter over img using resolved parameter values.
type ApplyFunc func(img image.Image, v Values) (image.Image, error)

// Definition describes a named filter and its parameters.
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamSpec `json:"params"`
	Apply       ApplyFunc   `json:"-"`
}

// Registry is a set of filters addressable by name. It is safe for
// concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding the built-in filters.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, d := range builtins() {
			if err := defaultRegistry.Register(d); err != nil {
				panic(err)
			}
		}
	})
	return defaultRegistry
}

// Register adds a filter. Names must be unique and non-empty.
func (r *Registry) Register(d Definition) error {
	if d.Name == "" {
		return errors.New("filter name is empty")
	}
	if d.Apply == nil {
		return fmt.Errorf("filter %s has no apply function", d.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[d.Name]; exists {
		return fmt.Errorf("filter %s already registered", d.Name)
	}
	r.defs[d.Name] = d
	return nil
}

// Lookup returns the filter registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// Names returns the registered filter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns all filters sorted by name.
func (r *Registry) Definitions() []Definition {
	names := r.Names()
	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		if d, ok := r.Lookup(name); ok {
			defs = append(defs, d)
		}
	}
	return defs
}

// Apply runs a single named filter over img. It is shorthand for a one-stage
// Graph.
func (r *Registry) Apply(img image.Image, name string, params Params) (image.Image, error) {
	return NewGraph(r).Then(name, params).Evaluate(img)
}
