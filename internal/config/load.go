package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load reads, parses, normalizes, and validates a config file.
// Relative paths in the file resolve against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	ApplyEnv(&cfg, os.Getenv)
	ResolvePaths(&cfg, filepath.Dir(path))
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the normalized default configuration with environment overrides applied.
func Default() Config {
	cfg := Config{Version: 1}
	Normalize(&cfg)
	ApplyEnv(&cfg, os.Getenv)
	return cfg
}

// ResolvePaths anchors relative file paths at baseDir.
func ResolvePaths(cfg *Config, baseDir string) {
	if baseDir == "" {
		return
	}
	resolve := func(p string) string {
		if p == "" || p == ":memory:" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	cfg.Database.Path = resolve(cfg.Database.Path)
	cfg.Runner.OutputDir = resolve(cfg.Runner.OutputDir)
	cfg.Metrics.File = resolve(cfg.Metrics.File)
}
