package live

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// styles is built once per model. With NoColor every style is a no-op.
type styles struct {
	header  lipgloss.Style
	summary lipgloss.Style
	footer  lipgloss.Style
	status  map[PromptStatus]lipgloss.Style
	table   table.Styles
}

func newStyles(noColor bool) styles {
	plain := lipgloss.NewStyle()
	st := styles{header: plain, summary: plain, footer: plain, status: map[PromptStatus]lipgloss.Style{}, table: table.DefaultStyles()}
	if noColor {
		return st
	}
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	st.header = fg("33")
	st.summary = fg("242")
	st.footer = fg("244")
	st.status = map[PromptStatus]lipgloss.Style{
		StatusQueued:  fg("246"),
		StatusRunning: fg("33"),
		StatusPass:    fg("42"),
		StatusFail:    fg("220"),
		StatusError:   fg("196"),
	}
	st.table.Header = st.table.Header.Foreground(lipgloss.Color("252"))
	return st
}

func headerLine(state State, now time.Time) string {
	parts := []string{"Run " + state.RunKey}
	if state.Model != "" {
		parts = append(parts, "Model: "+state.Model)
	}
	if state.AgentType != "" {
		parts = append(parts, "Agent: "+state.AgentType)
	}
	if !state.StartedAt.IsZero() {
		parts = append(parts, "Elapsed: "+now.Sub(state.StartedAt).Round(100*time.Millisecond).String())
	}
	return strings.Join(parts, " | ")
}

func summaryLine(state State) string {
	c := state.Counts
	return fmt.Sprintf("Queued: %d Running: %d Done: %d/%d Pass: %d Fail: %d Error: %d Tool calls: %d",
		c.Queued, c.Running, c.Done, len(state.Rows), c.Passed, c.Failed, c.Errored, c.ToolCalls)
}

func footerLine(state State) string {
	if state.LastEvent == "" {
		return ""
	}
	return "Last event: " + state.LastEvent
}

// columnsForWidth gives the prompt column whatever the fixed columns leave.
func columnsForWidth(width int) []table.Column {
	const fixed = 4 + 16 + 8 + 36 + 8 + 12
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Prompt", Width: max(width-fixed, 20)},
		{Title: "Category", Width: 16},
		{Title: "Status", Width: 8},
		{Title: "Tools", Width: 36},
		{Title: "Time", Width: 8},
	}
}

func tableRows(state State, now time.Time, st styles) []table.Row {
	rows := make([]table.Row, len(state.Rows))
	for i, row := range state.Rows {
		status := string(row.Status)
		if style, ok := st.status[row.Status]; ok {
			status = style.Render(status)
		}
		rows[i] = table.Row{
			formatIndex(row.Index),
			formatPromptText(row.Text),
			row.Category,
			status,
			formatCalls(row),
			formatRowDuration(row, now),
		}
	}
	return rows
}
