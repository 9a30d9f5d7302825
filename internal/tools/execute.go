package tools

import (
	"context"
	"time"
)

const truncatedSuffix = "\n... [truncated]"

// Limits bounds what one tool call can hand back to the model.
type Limits struct {
	MaxOutputBytes int
}

// DefaultLimits caps tool output at 16 KiB.
func DefaultLimits() Limits {
	return Limits{MaxOutputBytes: 16 << 10}
}

// CallResult is a finished tool call as the agent loop sees it. Output is
// what the model receives; Error is set when the handler failed.
type CallResult struct {
	Tool        string
	Output      string
	Error       string
	Duration    time.Duration
	OutputBytes int
	Truncated   bool
}

// Execute calls d and never fails: handler errors become model-visible output.
func Execute(ctx context.Context, d Descriptor, args Args, limits Limits, clock func() time.Time) CallResult {
	if clock == nil {
		clock = time.Now
	}
	start := clock()
	output, err := d.Call(ctx, args)
	result := CallResult{Tool: d.Name, Duration: clock().Sub(start)}
	if err != nil {
		result.Error = err.Error()
		output = "error: " + result.Error
	}
	result.Output, result.Truncated = clip(output, limits.MaxOutputBytes)
	result.OutputBytes = len(result.Output)
	return result
}

// clip shortens s to at most max bytes, ending with truncatedSuffix.
func clip(s string, max int) (string, bool) {
	switch {
	case max <= 0 || len(s) <= max:
		return s, false
	case max <= len(truncatedSuffix):
		return truncatedSuffix[:max], true
	default:
		return s[:max-len(truncatedSuffix)] + truncatedSuffix, true
	}
}
