package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// Dispatcher locates and runs the converter strategy for a model type.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher wraps registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Dispatcher{registry: registry}
}

// Registry exposes the underlying registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Convert runs the strategy registered for modelType and returns the path of
// the produced artifact. An unknown model type is a configuration error;
// strategy failures, panics and a missing artifact are conversion errors.
func (d *Dispatcher) Convert(ctx context.Context, modelType model.ModelType, inputDir, outputDir, targetName string) (string, error) {
	converter, err := d.registry.Get(modelType)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(targetName) == "" {
		return "", model.Errorf(model.KindConfiguration, "convert.Dispatcher", "target name is required")
	}

	params, err := newParams(inputDir, outputDir, targetName)
	if err != nil {
		return "", model.WrapError(model.KindIO, "convert.Dispatcher", err)
	}

	if err := run(ctx, converter, params); err != nil {
		return "", conversionError(modelType, err)
	}

	info, err := os.Stat(params.OutputPath())
	if err != nil {
		return "", conversionError(modelType, fmt.Errorf("artifact not produced: %w", err))
	}
	if info.IsDir() {
		return "", conversionError(modelType, fmt.Errorf("artifact %s is a directory", params.OutputPath()))
	}
	return params.OutputPath(), nil
}

func newParams(inputDir, outputDir, targetName string) (Params, error) {
	in, err := filepath.Abs(inputDir)
	if err != nil {
		return Params{}, err
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return Params{}, err
	}
	return Params{InputDir: in, OutputDir: out, TargetName: targetName}, nil
}

func run(ctx context.Context, converter Converter, params Params) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("converter panicked: %v", recovered)
		}
	}()
	if ctx != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return converter.Convert(ctx, params)
}
