package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"toolbench/internal/tools"
)

var (
	supportedProviders  = []string{"openrouter", "openai"}
	supportedAgentTypes = []string{"swarm", "react"}
	supportedLogFormats = []string{"console", "json"}
)

// Issue is one invalid config field, named by its YAML path.
type Issue struct {
	Field   string
	Message string
}

// ValidationError lists every issue found, one per line.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	var b strings.Builder
	for i, issue := range err.Issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", issue.Field, issue.Message)
	}
	return b.String()
}

type issues []Issue

func (list *issues) addf(field, format string, args ...any) {
	*list = append(*list, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (list issues) err() error {
	if len(list) == 0 {
		return nil
	}
	return &ValidationError{Issues: list}
}

// Validate checks a normalized config and reports all problems at once.
func Validate(cfg *Config) error {
	var found issues

	switch cfg.Version {
	case 1:
	case 0:
		found.addf("version", "is required")
	default:
		found.addf("version", "unsupported version %d", cfg.Version)
	}
	if !slices.Contains(supportedProviders, cfg.Provider.Name) {
		found.addf("provider.name", "unsupported provider %q", cfg.Provider.Name)
	}
	if t := cfg.Provider.Temperature; t != nil && (*t < 0 || *t > 2) {
		found.addf("provider.temperature", "must be between 0 and 2")
	}
	if cfg.Generator.SamplesPerBatch < 0 {
		found.addf("generator.samples_per_batch", "must be positive")
	}
	if cfg.Generator.Batches < 0 {
		found.addf("generator.batches", "must be positive")
	}
	if !slices.Contains(supportedAgentTypes, cfg.Runner.AgentType) {
		found.addf("runner.agent_type", "must be one of %s", strings.Join(supportedAgentTypes, ", "))
	}
	if cfg.Runner.MaxSteps < 0 {
		found.addf("runner.max_steps", "must be zero or positive")
	}
	if _, err := cfg.Runner.Timeout(); err != nil {
		found.addf("runner.prompt_timeout", "%v", err)
	}
	if cfg.Tools.Code.TimeoutSeconds < 0 {
		found.addf("tools.code.timeout_seconds", "must be positive")
	}
	for i, name := range cfg.Tools.Disabled {
		if !slices.Contains(tools.DefaultNames, name) {
			found.addf(fmt.Sprintf("tools.disabled[%d]", i), "unknown tool %q", name)
		}
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level)); err != nil {
		found.addf("logging.level", "unknown level %q", cfg.Logging.Level)
	}
	if !slices.Contains(supportedLogFormats, cfg.Logging.Format) {
		found.addf("logging.format", "must be one of %s", strings.Join(supportedLogFormats, ", "))
	}
	return found.err()
}

// Timeout parses prompt_timeout. Empty means no per-prompt deadline.
func (r RunnerConfig) Timeout() (time.Duration, error) {
	value := strings.TrimSpace(r.PromptTimeout)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}
