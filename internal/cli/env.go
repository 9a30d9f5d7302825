package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"toolbench/internal/agent"
	"toolbench/internal/config"
	"toolbench/internal/logging"
	"toolbench/internal/store"
	"toolbench/internal/tools"
)

// app carries the global flags and output streams of one invocation.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	logLevel   string
}

// environment is the loaded configuration and its derived services.
type environment struct {
	cfg        config.Config
	configPath string
	logger     zerolog.Logger
}

// load resolves the config file, falling back to defaults rooted at the
// working directory when none exists and --config was not given.
func (a *app) load() (*environment, error) {
	path, err := a.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	var cfg config.Config
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		cfg = config.Default()
		config.ResolvePaths(&cfg, wd)
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if level := strings.TrimSpace(a.logLevel); level != "" {
		cfg.Logging.Level = level
	}
	logger, err := logging.New(a.stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, usageError{err: err}
	}
	return &environment{cfg: cfg, configPath: path, logger: logger}, nil
}

func (a *app) resolveConfigPath() (string, error) {
	if path := strings.TrimSpace(a.configPath); path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return abs, nil
	}
	path, err := config.FindConfigPath("")
	if err != nil {
		var missing *config.NotFoundError
		if errors.As(err, &missing) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}

func (e *environment) openStore(ctx context.Context) (*store.Store, error) {
	s, err := store.Open(ctx, e.cfg.Database.Path, tools.DefaultNames)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", e.cfg.Database.Path, err)
	}
	return s, nil
}

func (e *environment) registry() (*tools.Registry, error) {
	code := e.cfg.Tools.Code
	return tools.NewDefaultRegistry(tools.CatalogOptions{
		Code: tools.CodeOptions{
			Python:         code.Python,
			Node:           code.Node,
			TypeScript:     code.TSC,
			DefaultTimeout: time.Duration(code.TimeoutSeconds) * time.Second,
		},
		Disabled: e.cfg.Tools.Disabled,
	})
}

func (e *environment) providerSettings(model string) agent.ProviderSettings {
	p := e.cfg.Provider
	if strings.TrimSpace(model) == "" {
		model = p.Model
	}
	return agent.ProviderSettings{
		Name:        p.Name,
		Model:       model,
		BaseURL:     p.BaseURL,
		APIKeyEnv:   p.APIKeyEnv,
		Temperature: p.Temperature,
	}
}

func (e *environment) component(name string) zerolog.Logger {
	return logging.Component(e.logger, name)
}
