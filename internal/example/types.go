// Package example defines benchmark examples and turns model output into them.
package example

import (
	"fmt"
	"slices"
	"strings"
)

// BenchmarkExample pairs a natural-language prompt with the tools expected to serve it.
type BenchmarkExample struct {
	ID             int64    `json:"id,omitempty" yaml:"id,omitempty"`
	Prompt         string   `json:"prompt" yaml:"prompt"`
	Category       string   `json:"prompt_category" yaml:"prompt_category"`
	CorrectTools   []string `json:"correct_tools" yaml:"correct_tools"`
	ToolsAvailable []string `json:"tools_available,omitempty" yaml:"tools_available,omitempty"`
	ExpectedOrder  bool     `json:"expected_order,omitempty" yaml:"expected_order,omitempty"`
}

// WithDefaultTools returns a copy whose ToolsAvailable falls back to catalog when empty.
func (ex BenchmarkExample) WithDefaultTools(catalog []string) BenchmarkExample {
	if len(ex.ToolsAvailable) == 0 {
		ex.ToolsAvailable = slices.Clone(catalog)
	}
	return ex
}

// Validate checks the fields required for persistence.
func (ex BenchmarkExample) Validate() error {
	if strings.TrimSpace(ex.Prompt) == "" {
		return fmt.Errorf("prompt is required")
	}
	if len(ex.CorrectTools) == 0 {
		return fmt.Errorf("correct tools must include at least one entry")
	}
	for _, tool := range ex.CorrectTools {
		if !slices.Contains(ex.ToolsAvailable, tool) {
			return fmt.Errorf("correct tool %q is not in tools available", tool)
		}
	}
	return nil
}

// ToolNames is the subset of a tool catalog the example package relies on.
type ToolNames interface {
	Names() []string
	Unknown(names []string) []string
}

// UnknownTools returns the correct tools that the catalog does not register.
func UnknownTools(ex BenchmarkExample, catalog ToolNames) []string {
	if catalog == nil {
		return nil
	}
	return catalog.Unknown(ex.CorrectTools)
}
