package runner

import "gonum.org/v1/gonum/stat"

// summarize aggregates prompt results into a summary.
func summarize(prompts []PromptResult) RunSummary {
	summary := RunSummary{
		Total:         len(prompts),
		ByCategory:    map[string]CategorySummary{},
		ToolFrequency: map[string]int{},
	}
	times := make([]float64, 0, len(prompts))
	for _, p := range prompts {
		switch p.Status() {
		case "pass":
			summary.Passed++
		case "fail":
			summary.Failed++
		case "error":
			summary.Errored++
		}
		times = append(times, p.TimeTaken)
		summary.ToolCalls += len(p.ToolCalls)
		for _, tool := range p.ToolCalls {
			summary.ToolFrequency[tool]++
		}
		category := summary.ByCategory[p.Category]
		category.Total++
		if p.Success {
			category.Passed++
		}
		summary.ByCategory[p.Category] = category
	}
	for name, category := range summary.ByCategory {
		category.PassRate = rate(category.Passed, category.Total)
		summary.ByCategory[name] = category
	}
	summary.PassRate = rate(summary.Passed, summary.Total)
	switch len(times) {
	case 0:
	case 1:
		summary.MeanTime = times[0]
	default:
		summary.MeanTime, summary.StdDevTime = stat.MeanStdDev(times, nil)
	}
	return summary
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
