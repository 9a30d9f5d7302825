package agent

import (
	"context"
	"fmt"
)

// TextCompleter adapts a Provider to a plain prompt-in, text-out boundary.
type TextCompleter struct {
	Provider     Provider
	Instructions string
}

// Complete sends a single user prompt without tools and returns the collected text.
func (c TextCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.Provider == nil {
		return "", fmt.Errorf("provider is required")
	}
	stream, err := c.Provider.Stream(ctx, Prompt{
		Instructions: c.Instructions,
		InputItems:   []HistoryItem{{Role: "user", Content: HistoryText{Text: prompt}}},
	})
	if err != nil {
		return "", err
	}
	text, _, err := collectStream(stream)
	if err != nil {
		return "", err
	}
	return text, nil
}
