package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ConfigFileName is the file the CLI looks for.
const ConfigFileName = "toolbench.yml"

// NotFoundError means no directory from StartDir up to the root holds a config file.
type NotFoundError struct {
	StartDir string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %s or parent directories", ConfigFileName, e.StartDir)
}

// FindConfigPath returns the nearest toolbench.yml at or above startDir.
// An empty startDir means the working directory.
func FindConfigPath(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}
	for dir := start; ; dir = filepath.Dir(dir) {
		path, found, err := configIn(dir)
		if err != nil || found {
			return path, err
		}
		if filepath.Dir(dir) == dir {
			return "", &NotFoundError{StartDir: start}
		}
	}
}

func configIn(dir string) (string, bool, error) {
	path := filepath.Join(dir, ConfigFileName)
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("stat config path %q: %w", path, err)
	case info.IsDir():
		return "", false, fmt.Errorf("config path %q is a directory", path)
	}
	return path, true, nil
}
