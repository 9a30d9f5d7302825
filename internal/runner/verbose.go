package runner

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/term"
)

const verbosePrefix = "[toolbench]"

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiGray   = "\x1b[90m"
	ansiGreen  = "\x1b[32m"
	ansiRed    = "\x1b[31m"
	ansiBlue   = "\x1b[34m"
	ansiYellow = "\x1b[33m"
)

type verboseStyle int

const (
	styleDefault verboseStyle = iota
	stylePrompt
	styleTool
	stylePass
	styleFail
	styleMetrics
)

// syncWriter serializes writes; tool events arrive from parallel calls.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// VerboseObserver prints run progress as plain lines.
type VerboseObserver struct {
	writer  io.Writer
	palette verbosePalette
}

// NewVerboseObserver writes progress to w. Output is styled only on terminals.
func NewVerboseObserver(w io.Writer, noColor bool) *VerboseObserver {
	if w == nil {
		w = io.Discard
	}
	return &VerboseObserver{
		writer:  &syncWriter{w: w},
		palette: paletteFor(w, noColor),
	}
}

func (o *VerboseObserver) OnRunStart(info RunInfo) {
	o.log(styleMetrics, "Run %s model=%s agent=%s prompts=%d", info.RunKey, info.Model, info.AgentType, info.Prompts)
}

func (o *VerboseObserver) OnPromptStart(event PromptEvent) {
	o.log(stylePrompt, "Prompt %d/%d [%s] %s", event.Index+1, event.Total, event.Category, event.Prompt)
}

func (o *VerboseObserver) OnToolCall(event ToolEvent) {
	status := "ok"
	if event.Call.Failed {
		status = "error"
	}
	o.log(styleTool, "  tool %s %s %.3fs", event.Call.Tool, status, event.Call.Seconds())
}

func (o *VerboseObserver) OnPromptEnd(result PromptResult) {
	switch result.Status() {
	case "pass":
		o.log(stylePass, "  PASS expected=%s used=%s", strings.Join(result.Expected, ","), formatCalls(result.ToolCalls))
	case "fail":
		o.log(styleFail, "  FAIL expected=%s used=%s", strings.Join(result.Expected, ","), formatCalls(result.ToolCalls))
	default:
		o.log(styleFail, "  ERROR %s", result.Error)
	}
}

func (o *VerboseObserver) OnRunEnd(results Results) {
	s := results.Summary
	o.log(styleMetrics, "Done passed=%d failed=%d errored=%d pass_rate=%.1f%% tools=%s",
		s.Passed, s.Failed, s.Errored, s.PassRate*100, formatToolCounts(s.ToolFrequency))
}

func (o *VerboseObserver) log(style verboseStyle, format string, args ...any) {
	if o == nil || o.writer == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	fmt.Fprintf(o.writer, "%s %s\n", o.palette.prefix(verbosePrefix), o.palette.apply(style, line))
}

func formatCalls(calls []string) string {
	if len(calls) == 0 {
		return "none"
	}
	return strings.Join(calls, ",")
}

func formatToolCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", key, counts[key]))
	}
	return strings.Join(parts, " ")
}

type verbosePalette struct {
	enabled bool
}

func paletteFor(writer io.Writer, noColor bool) verbosePalette {
	if noColor {
		return verbosePalette{enabled: false}
	}
	return verbosePalette{enabled: shouldUseStyling(writer)}
}

func shouldUseStyling(writer io.Writer) bool {
	if writer == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := writer.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

func (p verbosePalette) prefix(text string) string {
	if !p.enabled {
		return text
	}
	return ansiDim + ansiGray + text + ansiReset
}

func (p verbosePalette) apply(style verboseStyle, text string) string {
	if !p.enabled {
		return text
	}
	switch style {
	case stylePrompt:
		return ansiBold + ansiBlue + text + ansiReset
	case styleTool:
		return ansiYellow + text + ansiReset
	case stylePass:
		return ansiBold + ansiGreen + text + ansiReset
	case styleFail:
		return ansiBold + ansiRed + text + ansiReset
	case styleMetrics:
		return ansiBold + text + ansiReset
	default:
		return text
	}
}
