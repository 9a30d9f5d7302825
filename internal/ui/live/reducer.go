package live

import (
	"fmt"
	"time"
)

// Reduce applies an event to the UI state.
func Reduce(state State, event Event) State {
	switch event.Kind {
	case EventRunStart:
		state = State{
			RunKey:    event.Run.RunKey,
			TestRunID: event.Run.TestRunID,
			Model:     event.Run.Model,
			AgentType: event.Run.AgentType,
			StartedAt: event.At,
		}
		state = ensureRow(state, event.Run.Prompts-1)
	case EventPromptStart:
		state = ensureRow(state, event.Prompt.Index)
		row := state.Rows[event.Prompt.Index]
		row.ID = event.Prompt.PromptID
		row.Text = event.Prompt.Prompt
		row.Category = event.Prompt.Category
		row.Expected = event.Prompt.Expected
		row.Status = StatusRunning
		row.StartedAt = event.At
		state.Rows[event.Prompt.Index] = row
	case EventToolCall:
		state = ensureRow(state, event.Tool.Index)
		row := state.Rows[event.Tool.Index]
		call := event.Tool.Call
		row.Calls = append(row.Calls, call.Tool)
		row.LastTool = ToolStatus{Name: call.Tool, Duration: call.Duration, Failed: call.Failed}
		row.HasTool = true
		if call.Failed {
			row.Failures++
		}
		state.Rows[event.Tool.Index] = row
	case EventPromptEnd:
		state = ensureRow(state, event.Result.Index)
		row := state.Rows[event.Result.Index]
		if row.Text == "" {
			row.Text = event.Result.Prompt
		}
		row.Status = PromptStatus(event.Result.Status())
		row.Calls = append([]string(nil), event.Result.ToolCalls...)
		row.TimeTaken = event.Result.TimeTaken
		row.Error = event.Result.Error
		row.FinishedAt = event.At
		state.Rows[event.Result.Index] = row
	case EventRunEnd:
		state.Finished = true
	}
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, index int) State {
	if index < len(state.Rows) {
		return state
	}
	rows := make([]PromptRow, index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = PromptRow{Index: i, Status: StatusQueued}
	}
	state.Rows = rows
	return state
}

// isTerminalStatus reports whether a status is final.
func isTerminalStatus(status PromptStatus) bool {
	switch status {
	case StatusPass, StatusFail, StatusError:
		return true
	default:
		return false
	}
}

// recount recomputes status counts for the current rows.
func recount(rows []PromptRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		counts.ToolCalls += len(row.Calls)
		switch row.Status {
		case StatusQueued:
			counts.Queued++
		case StatusRunning:
			counts.Running++
		case StatusPass:
			counts.Done++
			counts.Passed++
		case StatusFail:
			counts.Done++
			counts.Failed++
		case StatusError:
			counts.Done++
			counts.Errored++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event Event) string {
	switch event.Kind {
	case EventRunStart:
		return fmt.Sprintf("run %s started with %d prompts", event.Run.RunKey, event.Run.Prompts)
	case EventToolCall:
		call := event.Tool.Call
		if call.Failed {
			return fmt.Sprintf("P%d tool %s error (%s)", event.Tool.Index+1, call.Tool, call.Result)
		}
		return fmt.Sprintf("P%d tool %s finished (%s)", event.Tool.Index+1, call.Tool, formatDuration(call.Duration))
	case EventPromptEnd:
		switch event.Result.Status() {
		case "error":
			return fmt.Sprintf("P%d error: %s", event.Result.Index+1, event.Result.Error)
		case "pass":
			return fmt.Sprintf("P%d passed", event.Result.Index+1)
		default:
			return fmt.Sprintf("P%d failed", event.Result.Index+1)
		}
	case EventRunEnd:
		return fmt.Sprintf("run complete: %d/%d passed", event.Summary.Passed, event.Summary.Total)
	}
	return ""
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	if duration < time.Second {
		return duration.Round(time.Millisecond).String()
	}
	return duration.Round(100 * time.Millisecond).String()
}
