package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// Area is the staging location of a single run.
type Area struct {
	RunID        string
	ModelType    model.ModelType
	InputDir     string
	OutputDir    string
	ArtifactName string
}

// SourcePath is the path of the staged source model.
func (a *Area) SourcePath() string {
	return filepath.Join(a.InputDir, a.ArtifactName+SourceModelExt)
}

// HLVLPath is the path where converters place the produced artifact.
func (a *Area) HLVLPath() string {
	return filepath.Join(a.OutputDir, a.ArtifactName+HLVLExt)
}

// WriteSourceModel stages text as the run's source model and prepares the
// output directory in the same step.
func (a *Area) WriteSourceModel(text string) error {
	if _, err := WriteSourceModel(a.InputDir, a.ArtifactName, text); err != nil {
		return err
	}
	return EnsureArea(a.OutputDir)
}

// Remove deletes the run's input and output directories.
func (a *Area) Remove() error {
	var errs []error
	for _, dir := range []string{a.InputDir, a.OutputDir} {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return model.WrapError(model.KindIO, "staging.Remove", err)
	}
	return nil
}

// EnsureArea creates path and any missing ancestors. Existing directories are
// left untouched.
func EnsureArea(path string) error {
	if strings.TrimSpace(path) == "" {
		return model.Errorf(model.KindConfiguration, "staging.EnsureArea", "area path is empty")
	}
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return model.WrapError(model.KindIO, "staging.EnsureArea", err)
	}
	return nil
}

// WriteSourceModel persists text as <areaPath>/<name>.xml, replacing any
// previous content, and returns the written path. The file is written to a
// temporary sibling first and renamed into place so readers never observe a
// partial write.
func WriteSourceModel(areaPath, name, text string) (string, error) {
	if err := EnsureArea(areaPath); err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultArtifactName
	}
	dest := filepath.Join(areaPath, name+SourceModelExt)
	if err := writeAtomic(dest, []byte(text)); err != nil {
		return "", model.WrapError(model.KindIO, "staging.WriteSourceModel", err)
	}
	return dest, nil
}

// ReadArtifact reads a UTF-8 text file and normalises line endings to '\n'.
func ReadArtifact(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", model.Errorf(model.KindNotFound, "staging.ReadArtifact", "artifact %s does not exist", path)
		}
		return "", model.WrapError(model.KindIO, "staging.ReadArtifact", err)
	}
	return NormalizeNewlines(string(data)), nil
}

// NormalizeNewlines converts "\r\n" and lone "\r" to "\n".
func NormalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
