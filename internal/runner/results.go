package runner

import "time"

// Results is the outcome of a run, also written as results.json.
type Results struct {
	RunKey       string         `json:"run_key"`
	TestRunID    int64          `json:"test_run_id"`
	Model        string         `json:"model"`
	AgentType    string         `json:"agent_type"`
	Instructions string         `json:"instructions"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	Prompts      []PromptResult `json:"prompts"`
	Summary      RunSummary     `json:"summary"`
	OutputPath   string         `json:"-"`
}

// PromptResult is the scored outcome of one prompt.
type PromptResult struct {
	Index         int      `json:"index"`
	PromptID      int64    `json:"prompt_id"`
	ResultID      int64    `json:"result_id"`
	Prompt        string   `json:"prompt"`
	Category      string   `json:"prompt_category"`
	Expected      []string `json:"expected_tools"`
	ExpectedOrder bool     `json:"expected_order,omitempty"`
	ToolCalls     []string `json:"tool_calls"`
	TimeTaken     float64  `json:"time_taken"`
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
	Response      string   `json:"response,omitempty"`
}

// Status classifies a prompt result for summaries and metrics.
func (r PromptResult) Status() string {
	switch {
	case r.Error != "":
		return "error"
	case r.Success:
		return "pass"
	default:
		return "fail"
	}
}

// RunSummary aggregates a run.
type RunSummary struct {
	Total         int                        `json:"total"`
	Passed        int                        `json:"passed"`
	Failed        int                        `json:"failed"`
	Errored       int                        `json:"errored"`
	PassRate      float64                    `json:"pass_rate"`
	MeanTime      float64                    `json:"mean_time"`
	StdDevTime    float64                    `json:"stddev_time"`
	ToolCalls     int                        `json:"tool_calls"`
	ByCategory    map[string]CategorySummary `json:"by_category"`
	ToolFrequency map[string]int             `json:"tool_frequency"`
}

// CategorySummary is the pass rate of one prompt category.
type CategorySummary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	PassRate float64 `json:"pass_rate"`
}
