package live

import (
	"fmt"
	"strings"
	"time"
)

const promptCellLimit = 80

// formatIndex renders a zero-based index as P01, P02 and so on.
func formatIndex(index int) string {
	return fmt.Sprintf("P%02d", index+1)
}

func formatPromptText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= promptCellLimit {
		return text
	}
	return text[:promptCellLimit-3] + "..."
}

// formatCalls lists the tools called so far and flags a failed latest call
// while the prompt is still running.
func formatCalls(row PromptRow) string {
	done := isTerminalStatus(row.Status)
	if len(row.Calls) == 0 {
		if done {
			return "-"
		}
		return ""
	}
	text := strings.Join(row.Calls, ",")
	if !done && row.HasTool && row.LastTool.Failed {
		text += " (error)"
	}
	return text
}

// formatRowDuration shows the scored time once done and a live clock while running.
func formatRowDuration(row PromptRow, now time.Time) string {
	switch {
	case isTerminalStatus(row.Status):
		return fmt.Sprintf("%.2fs", row.TimeTaken)
	case row.Status == StatusRunning && !row.StartedAt.IsZero():
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}
