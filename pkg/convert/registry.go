package convert

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// Registry maps model types to converter strategies.
type Registry struct {
	mu         sync.RWMutex
	converters map[model.ModelType]Converter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		converters: make(map[model.ModelType]Converter),
	}
}

// Register adds a converter for modelType. Duplicates return an error.
func (r *Registry) Register(modelType model.ModelType, converter Converter) error {
	if converter == nil {
		return fmt.Errorf("convert: converter is required")
	}
	if modelType == "" {
		return fmt.Errorf("convert: model type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.converters[modelType]; exists {
		return fmt.Errorf("convert: converter for %q already registered", modelType)
	}
	r.converters[modelType] = converter
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(modelType model.ModelType, converter Converter) {
	if err := r.Register(modelType, converter); err != nil {
		panic(err)
	}
}

// Get returns the converter for modelType or a configuration error.
func (r *Registry) Get(modelType model.ModelType) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	converter, ok := r.converters[modelType]
	if !ok {
		return nil, model.Errorf(model.KindConfiguration, "convert.Registry", "no converter for model type %q", modelType)
	}
	return converter, nil
}

// Has reports whether modelType has a converter.
func (r *Registry) Has(modelType model.ModelType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.converters[modelType]
	return ok
}

// List returns the registered model types, sorted.
func (r *Registry) List() []model.ModelType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]model.ModelType, 0, len(r.converters))
	for modelType := range r.converters {
		types = append(types, modelType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
