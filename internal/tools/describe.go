package tools

import (
	"fmt"
	"strings"
)

// DescribeForPrompt renders the catalog in the layout used by the example generator.
func (r *Registry) DescribeForPrompt() string {
	tools := r.List()
	blocks := make([]string, 0, len(tools))
	for _, tool := range tools {
		blocks = append(blocks, describeTool(tool))
	}
	return strings.Join(blocks, "\n")
}

func describeTool(tool Tool) string {
	var b strings.Builder
	meta := tool.Metadata
	fmt.Fprintf(&b, "- %s:\n", tool.Name)
	fmt.Fprintf(&b, "  Description: %s\n", firstLine(tool.Description))
	if len(meta.Capabilities) > 0 {
		fmt.Fprintf(&b, "  Capabilities: %s\n", strings.Join(meta.Capabilities, ", "))
	}
	if meta.InputFormat != "" {
		fmt.Fprintf(&b, "  Input Format: %s\n", meta.InputFormat)
	}
	if meta.OutputFormat != "" {
		fmt.Fprintf(&b, "  Output Format:\n%s\n", meta.OutputFormat)
	}
	if len(meta.CommonUseCases) > 0 {
		fmt.Fprintf(&b, "  Common Uses: %s\n", strings.Join(meta.CommonUseCases, ", "))
	}
	return b.String()
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}
