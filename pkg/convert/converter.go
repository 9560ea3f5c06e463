package convert

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// HLVLExt is the extension of produced artifacts.
const HLVLExt = ".hlvl"

// Params is the bundle handed to a converter strategy.
type Params struct {
	InputDir   string
	OutputDir  string
	TargetName string
}

// OutputPath is where the strategy must write the HLVL artifact.
func (p Params) OutputPath() string {
	return filepath.Join(p.OutputDir, p.TargetName+HLVLExt)
}

// Converter turns the staged model in Params.InputDir into an HLVL artifact.
type Converter interface {
	Convert(ctx context.Context, params Params) error
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, params Params) error

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, params Params) error {
	return f(ctx, params)
}

// ReadInput returns the staged source model in params.InputDir. The file named
// after the target wins; otherwise the first regular file by name is used.
func ReadInput(params Params) (string, error) {
	entries, err := os.ReadDir(params.InputDir)
	if err != nil {
		return "", err
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", &fs.PathError{Op: "read input", Path: params.InputDir, Err: fs.ErrNotExist}
	}
	sort.Strings(names)

	chosen := names[0]
	for _, name := range names {
		if strings.TrimSuffix(name, filepath.Ext(name)) == params.TargetName {
			chosen = name
			break
		}
	}

	data, err := os.ReadFile(filepath.Join(params.InputDir, chosen))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteOutput writes content to params.OutputPath().
func WriteOutput(params Params, content string) error {
	if params.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if err := os.MkdirAll(params.OutputDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(params.OutputPath(), []byte(content), 0o644)
}

func conversionError(modelType model.ModelType, err error) error {
	return &model.Error{Kind: model.KindConversion, Op: "convert." + string(modelType), Err: err}
}
