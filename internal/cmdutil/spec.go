package cmdutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/output"
	"github.com/opmodel/hostctl/internal/serving"
)

// DefaultSpecFiles are looked up, in order, when no hosting config file is
// given explicitly.
var DefaultSpecFiles = []string{"hosting.yaml", "hosting.yml", "hosting.json"}

// FindSpecFile returns the first default hosting config file present in dir,
// or "" when there is none.
func FindSpecFile(dir string) string {
	for _, name := range DefaultSpecFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadHostingSpec reads, validates and parses a hosting config file.
// An empty file yields a nil spec.
func LoadHostingSpec(path string) (*serving.HostingSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("hosting config not found", path,
				"Pass the path to a hosting.yaml or hosting.json file.")
		}
		return nil, fmt.Errorf("reading hosting config: %w", err)
	}

	if err := serving.Validate(data); err != nil {
		var detail *oerrors.DetailError
		if errors.As(err, &detail) && detail.Location == "" {
			detail.Location = path
		}
		return nil, err
	}

	spec, err := serving.ParseHostingSpec(data)
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), path, "", "")
	}
	output.Debug("loaded hosting config", "path", path)
	return spec, nil
}

// CompileFile loads a hosting config file and compiles it into a serving
// config.
func CompileFile(path string) (serving.ServingConfig, error) {
	spec, err := LoadHostingSpec(path)
	if err != nil {
		return serving.ServingConfig{}, err
	}
	cfg, err := serving.Compile(spec)
	if err != nil {
		return serving.ServingConfig{}, &oerrors.DetailError{
			Type:     "validation failed",
			Message:  err.Error(),
			Location: path,
			Cause:    err,
		}
	}
	return cfg, nil
}
