package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// Registry stores renderers by response format.
type Registry struct {
	mu        sync.RWMutex
	renderers map[model.ResponseFormat]Renderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[model.ResponseFormat]Renderer),
	}
}

// Register adds a renderer by its Format(). Duplicate formats return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	format := renderer.Format()
	if format == "" {
		return fmt.Errorf("render: renderer format is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[format]; exists {
		return fmt.Errorf("render: renderer for %q already registered", format)
	}

	r.renderers[format] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves the renderer for format. A missing renderer is a
// configuration error.
func (r *Registry) Get(format model.ResponseFormat) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[format]
	if !ok {
		return nil, model.Errorf(model.KindConfiguration, "render.Registry", "no renderer for response type %q", format)
	}
	return renderer, nil
}

// List returns the registered formats, sorted.
func (r *Registry) List() []model.ResponseFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]model.ResponseFormat, 0, len(r.renderers))
	for format := range r.renderers {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Has reports whether a renderer is registered for format.
func (r *Registry) Has(format model.ResponseFormat) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[format]
	return ok
}
