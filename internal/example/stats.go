package example

import "sort"

// ToolCount is the number of examples that expect a tool.
type ToolCount struct {
	Tool  string `json:"tool"`
	Count int    `json:"count"`
}

// ToolDistribution counts how often each tool appears in correct tools,
// ordered by count descending and then by name.
func ToolDistribution(examples []BenchmarkExample) []ToolCount {
	counts := map[string]int{}
	for _, ex := range examples {
		for _, tool := range ex.CorrectTools {
			counts[tool]++
		}
	}
	out := make([]ToolCount, 0, len(counts))
	for tool, count := range counts {
		out = append(out, ToolCount{Tool: tool, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tool < out[j].Tool
	})
	return out
}

// CategoryDistribution counts examples per prompt category.
func CategoryDistribution(examples []BenchmarkExample) map[string]int {
	counts := map[string]int{}
	for _, ex := range examples {
		counts[ex.Category]++
	}
	return counts
}
