package example

import (
	"fmt"
	"slices"
	"strings"
)

// Issue captures a validation problem in a corpus file.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("corpus validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// NormalizeCorpus trims fields, applies catalog defaults and validates every item.
func NormalizeCorpus(corpus Corpus, catalog ToolNames) ([]BenchmarkExample, error) {
	collector := &issueCollector{}
	if corpus.Version != 0 && corpus.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", corpus.Version))
	}
	if len(corpus.Prompts) == 0 {
		collector.add("prompts", "must include at least one entry")
	}
	var defaults []string
	if catalog != nil {
		defaults = catalog.Names()
	}

	examples := make([]BenchmarkExample, 0, len(corpus.Prompts))
	for i, item := range corpus.Prompts {
		prefix := fmt.Sprintf("prompts[%d]", i)
		ex := BenchmarkExample{
			Prompt:         strings.TrimSpace(item.Prompt),
			Category:       strings.TrimSpace(item.Category),
			CorrectTools:   normalizeStringSlice(item.CorrectTools),
			ToolsAvailable: normalizeStringSlice(item.ToolsAvailable),
			ExpectedOrder:  item.ExpectedOrder,
		}
		if single := strings.TrimSpace(item.CorrectTool); single != "" && !slices.Contains(ex.CorrectTools, single) {
			ex.CorrectTools = append(ex.CorrectTools, single)
		}
		ex = ex.WithDefaultTools(defaults)

		if ex.Prompt == "" {
			collector.add(prefix+".prompt", "is required")
		}
		if ex.Category == "" {
			collector.add(prefix+".prompt_category", "is required")
		}
		if len(ex.CorrectTools) == 0 {
			collector.add(prefix+".correct_tools", "must include at least one entry")
		}
		if catalog != nil {
			for _, name := range catalog.Unknown(ex.ToolsAvailable) {
				collector.add(prefix+".tools_available", fmt.Sprintf("unknown tool %q", name))
			}
		}
		for j, tool := range ex.CorrectTools {
			if !slices.Contains(ex.ToolsAvailable, tool) {
				collector.add(fmt.Sprintf("%s.correct_tools[%d]", prefix, j), fmt.Sprintf("%q is not in tools_available", tool))
			}
		}
		examples = append(examples, ex)
	}

	if err := collector.result(); err != nil {
		return nil, err
	}
	return examples, nil
}

func normalizeStringSlice(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			normalized = append(normalized, value)
		}
	}
	return normalized
}
