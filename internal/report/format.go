package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"toolbench/internal/runner"
	"toolbench/internal/store"
)

// Formats lists the supported output formats.
var Formats = []string{"table", "markdown", "json"}

// ParseFormat normalizes a format name. Empty selects table.
func ParseFormat(value string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(value))
	if format == "" {
		return "table", nil
	}
	for _, known := range Formats {
		if format == known {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q (expected %s)", value, strings.Join(Formats, ", "))
}

func formatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3fs", seconds)
}

func formatStarted(at time.Time) string {
	if at.IsZero() {
		return "-"
	}
	return at.Format("2006-01-02 15:04")
}

func runLabel(run RunSummary) string {
	if run.RunKey != "" {
		return run.RunKey
	}
	return fmt.Sprintf("%d", run.ID)
}

func formatMisses(misses []store.ToolMiss) string {
	if len(misses) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(misses))
	for _, miss := range misses {
		parts = append(parts, fmt.Sprintf("%s %d/%d", miss.Tool, miss.Missed, miss.Expected))
	}
	return strings.Join(parts, ", ")
}

func sortedCategories(byCategory map[string]runner.CategorySummary) []string {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
