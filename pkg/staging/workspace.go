package staging

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-hlvl/pkg/model"
)

const (
	// DefaultBaseDir is used when a Workspace is created without a base.
	DefaultBaseDir = "temp"
	// DefaultArtifactName is the base name shared by staged artifacts.
	DefaultArtifactName = "model"

	SourceModelExt = ".xml"
	HLVLExt        = ".hlvl"

	hlvlDirName = "hlvl"
	dirPerm     = 0o755
	filePerm    = 0o644
)

var areaDirs = map[model.ModelType]string{
	model.ModelTypeVariamosXML: "model",
	model.ModelTypeSPLOT:       "splot",
}

// Workspace resolves staging directories below a base directory.
type Workspace struct {
	baseDir      string
	artifactName string
}

// Option customises a Workspace.
type Option func(*Workspace)

// WithArtifactName overrides the base name used for staged files.
func WithArtifactName(name string) Option {
	return func(w *Workspace) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			w.artifactName = trimmed
		}
	}
}

// New returns a Workspace rooted at baseDir (DefaultBaseDir when empty).
func New(baseDir string, options ...Option) *Workspace {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = DefaultBaseDir
	}
	w := &Workspace{
		baseDir:      filepath.Clean(baseDir),
		artifactName: DefaultArtifactName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w
}

// BaseDir returns the workspace root.
func (w *Workspace) BaseDir() string {
	return w.baseDir
}

// ArtifactName returns the base name shared by staged files.
func (w *Workspace) ArtifactName() string {
	return w.artifactName
}

// ResolveArea maps a model type to its stable staging directory. Unsupported
// types are configuration errors.
func (w *Workspace) ResolveArea(modelType model.ModelType) (string, error) {
	dir, ok := areaDirs[modelType]
	if !ok || dir == "" {
		return "", model.Errorf(model.KindConfiguration, "staging.ResolveArea", "no staging area for model type %q", modelType)
	}
	return filepath.Join(w.baseDir, dir), nil
}

// OutputArea returns the shared directory for produced HLVL artifacts.
func (w *Workspace) OutputArea() string {
	return filepath.Join(w.baseDir, hlvlDirName)
}

// Open returns the run-scoped area for modelType. No directories are created
// until the source model is written.
func (w *Workspace) Open(runID string, modelType model.ModelType) (*Area, error) {
	id := strings.TrimSpace(runID)
	if id == "" || id != filepath.Base(id) || id == "." || id == ".." {
		return nil, model.Errorf(model.KindConfiguration, "staging.Open", "invalid run id %q", runID)
	}
	typeDir, err := w.ResolveArea(modelType)
	if err != nil {
		return nil, err
	}
	return &Area{
		RunID:        id,
		ModelType:    modelType,
		InputDir:     filepath.Join(typeDir, id),
		OutputDir:    filepath.Join(w.OutputArea(), id),
		ArtifactName: w.artifactName,
	}, nil
}

// Runs lists the run IDs staged for modelType, sorted. A missing area yields
// an empty list.
func (w *Workspace) Runs(modelType model.ModelType) ([]string, error) {
	typeDir, err := w.ResolveArea(modelType)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(typeDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, model.WrapError(model.KindIO, "staging.Runs", err)
	}
	runs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			runs = append(runs, entry.Name())
		}
	}
	sort.Strings(runs)
	return runs, nil
}
