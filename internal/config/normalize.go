package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultDatabasePath    = "toolbench.duckdb"
	DefaultProvider        = "openrouter"
	DefaultModel           = "gpt-4o-mini"
	DefaultAPIKeyEnv       = "LLM_API_KEY"
	DefaultInstructions    = "You are a helpful AI assistant."
	DefaultAgentType       = "swarm"
	DefaultSamplesPerBatch = 10
	DefaultBatches         = 2
	DefaultOutputDir       = ".toolbench/runs"
	DefaultCodeTimeout     = 30
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
)

// Normalize fills blank fields with defaults.
func Normalize(cfg *Config) {
	setDefault(&cfg.Database.Path, DefaultDatabasePath)
	setDefault(&cfg.Provider.Name, DefaultProvider)
	setDefault(&cfg.Provider.Model, DefaultModel)
	setDefault(&cfg.Provider.APIKeyEnv, DefaultAPIKeyEnv)
	if cfg.Provider.Temperature == nil {
		zero := 0.0
		cfg.Provider.Temperature = &zero
	}
	setDefault(&cfg.Generator.Model, cfg.Provider.Model)
	if cfg.Generator.SamplesPerBatch == 0 {
		cfg.Generator.SamplesPerBatch = DefaultSamplesPerBatch
	}
	if cfg.Generator.Batches == 0 {
		cfg.Generator.Batches = DefaultBatches
	}
	setDefault(&cfg.Runner.Model, cfg.Provider.Model)
	setDefault(&cfg.Runner.Instructions, DefaultInstructions)
	setDefault(&cfg.Runner.AgentType, DefaultAgentType)
	cfg.Runner.AgentType = strings.ToLower(cfg.Runner.AgentType)
	setDefault(&cfg.Runner.OutputDir, DefaultOutputDir)
	if cfg.Tools.Code.TimeoutSeconds == 0 {
		cfg.Tools.Code.TimeoutSeconds = DefaultCodeTimeout
	}
	setDefault(&cfg.Logging.Level, DefaultLogLevel)
	setDefault(&cfg.Logging.Format, DefaultLogFormat)
}

// ApplyEnv applies LLM_PROVIDER and LLM_MODEL overrides.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	if provider := strings.TrimSpace(getenv("LLM_PROVIDER")); provider != "" {
		cfg.Provider.Name = provider
	}
	if model := strings.TrimSpace(getenv("LLM_MODEL")); model != "" {
		cfg.Provider.Model = model
		cfg.Generator.Model = model
		cfg.Runner.Model = model
	}
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}
