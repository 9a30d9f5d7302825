// Package config loads and validates toolbench.yml.
package config

// Config is the root of toolbench.yml.
type Config struct {
	Version   int             `yaml:"version"`
	Database  DatabaseConfig  `yaml:"database"`
	Provider  ProviderConfig  `yaml:"provider"`
	Generator GeneratorConfig `yaml:"generator"`
	Runner    RunnerConfig    `yaml:"runner"`
	Tools     ToolsConfig     `yaml:"tools"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ProviderConfig struct {
	Name        string   `yaml:"name"`
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	Temperature *float64 `yaml:"temperature"`
}

type GeneratorConfig struct {
	Model           string `yaml:"model"`
	SamplesPerBatch int    `yaml:"samples_per_batch"`
	Batches         int    `yaml:"batches"`
	Cache           bool   `yaml:"cache"`
}

type RunnerConfig struct {
	Model         string `yaml:"model"`
	Instructions  string `yaml:"instructions"`
	AgentType     string `yaml:"agent_type"`
	MaxSteps      int    `yaml:"max_steps"`
	ParallelTools bool   `yaml:"parallel_tools"`
	PromptTimeout string `yaml:"prompt_timeout"`
	OutputDir     string `yaml:"output_dir"`
}

type ToolsConfig struct {
	Code     CodeToolConfig `yaml:"code"`
	Disabled []string       `yaml:"disabled"`
}

type CodeToolConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Python         string `yaml:"python"`
	Node           string `yaml:"node"`
	TSC            string `yaml:"tsc"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	File string `yaml:"file"`
}
