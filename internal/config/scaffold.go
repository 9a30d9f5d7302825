package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1
database:
  path: toolbench.duckdb
provider:
  name: openrouter
  model: gpt-4o-mini
  api_key_env: LLM_API_KEY
  temperature: 0
generator:
  samples_per_batch: 10
  batches: 2
  cache: true
runner:
  instructions: "You are a helpful AI assistant."
  agent_type: swarm
  parallel_tools: true
  output_dir: .toolbench/runs
tools:
  code:
    timeout_seconds: 30
    python: python3
    node: node
    tsc: tsc
  disabled: []
logging:
  level: info
  format: console
metrics:
  file: ""
`

// Scaffold writes a default config file. It refuses to overwrite.
func Scaffold(path string) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", path)
		}
		return fmt.Errorf("config file already exists at %q", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
