package example

import (
	"regexp"
	"strings"
)

type field int

const (
	fieldNone field = iota
	fieldPrompt
	fieldCategory
	fieldTools
)

// labels are matched in order; "Prompt Category:" must precede "Prompt:".
var labels = []struct {
	prefix string
	field  field
}{
	{prefix: "Prompt Category:", field: fieldCategory},
	{prefix: "Prompt:", field: fieldPrompt},
	{prefix: "Correct Tools:", field: fieldTools},
}

var leadingOrdinal = regexp.MustCompile(`^\s*#?\d+\s*[.)]\s*`)

const toolQuotes = "'\"`‘’“”"

// Parse extracts a BenchmarkExample from one block of generated text.
// It never fails: ok is false when the block lacks a prompt, a category or a tool.
func Parse(block string) (BenchmarkExample, bool) {
	text := strings.ReplaceAll(block, "**", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = leadingOrdinal.ReplaceAllString(text, "")

	var ex BenchmarkExample
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kind, value := classify(line)
		switch kind {
		case fieldPrompt:
			ex.Prompt = value
		case fieldCategory:
			ex.Category = value
		case fieldTools:
			ex.CorrectTools = parseToolList(value)
		}
	}
	if ex.Prompt == "" || ex.Category == "" || len(ex.CorrectTools) == 0 {
		return BenchmarkExample{}, false
	}
	return ex, true
}

// classify returns the field a line sets and its trimmed value.
func classify(line string) (field, string) {
	for _, label := range labels {
		if strings.HasPrefix(line, label.prefix) {
			return label.field, strings.TrimSpace(strings.TrimPrefix(line, label.prefix))
		}
	}
	return fieldNone, ""
}

// parseToolList accepts "['a', "b"]" or "a, b" and returns the names in order.
func parseToolList(value string) []string {
	value = strings.Trim(strings.TrimSpace(value), "[]")
	var tools []string
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(part)
		name = strings.Trim(name, toolQuotes)
		name = strings.TrimSpace(name)
		if name != "" {
			tools = append(tools, name)
		}
	}
	return tools
}

var blankLines = regexp.MustCompile(`\n[ \t]*\n`)

// SplitBlocks splits a model response into candidate example blocks on blank lines.
func SplitBlocks(response string) []string {
	response = strings.ReplaceAll(response, "\r\n", "\n")
	parts := blankLines.Split(response, -1)
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		blocks = append(blocks, part)
	}
	return blocks
}
