package tracker

import (
	"context"
	"time"
)

// Arguments is implemented by tool argument types that can be rendered for the log.
type Arguments interface {
	Map() map[string]any
}

// Func is the shape of a tool entry point.
type Func[A Arguments] func(ctx context.Context, args A) (string, error)

// ErrorPrefix tags the result of a failed call.
const ErrorPrefix = "Error: "

// Instrumented wraps fn so that every invocation is recorded on the episode carried by ctx.
// Errors from fn are recorded and then returned unchanged.
func Instrumented[A Arguments](name string, fn Func[A]) Func[A] {
	return func(ctx context.Context, args A) (string, error) {
		episode, ok := FromContext(ctx)
		if !ok {
			return fn(ctx, args)
		}
		now := episode.now
		start := now()
		output, err := fn(ctx, args)
		finished := now()

		call := Call{
			Tool:      name,
			Arguments: args.Map(),
			Duration:  durationBetween(start, finished),
			Timestamp: finished,
			Result:    output,
		}
		if err != nil {
			call.Result = ErrorPrefix + err.Error()
			call.Failed = true
		}
		episode.Record(call)
		return output, err
	}
}

func durationBetween(start, finished time.Time) time.Duration {
	d := finished.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}
