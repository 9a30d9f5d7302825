package tools

import (
	"context"
	"fmt"
	"strings"
)

// SearchWebToolName names the web search tool.
const SearchWebToolName = "search_web_tool"

func searchWebTool() Tool {
	return Tool{
		Name:        SearchWebToolName,
		Description: "Search the web for information based on the user's query.",
		Parameters: ObjectSchema(map[string]Schema{
			"query": StringSchema("The search query to look up information about"),
		}, "query"),
		Metadata: Metadata{
			Capabilities:   []string{"Search web content", "Filter by categories", "Sort by relevance", "Track publication dates"},
			InputTypes:     []string{"search queries", "keywords", "topics"},
			CommonUseCases: []string{"Research", "Information gathering", "News tracking"},
			InputFormat:    "query: 'search term or phrase'",
			OutputFormat: `Search Results for: AI developments
1. Latest Developments in AI Technology
   Recent breakthroughs in artificial intelligence...
   Source: https://example.com/ai-developments
   Published: 2024-03-01`,
		},
		Handler: handleSearch,
	}
}

func handleSearch(_ context.Context, args Args) (string, error) {
	query, err := args.RequiredString("query")
	if err != nil {
		return "", err
	}
	slug := strings.ToLower(strings.Join(strings.Fields(query), "-"))
	return fmt.Sprintf(`Search Results for: %[1]s
1. %[1]s: an overview
   A summary of the most relevant coverage of %[1]s.
   Source: https://example.com/%[2]s
   Published: 2024-03-01
2. Recent news about %[1]s
   The latest reporting and analysis.
   Source: https://news.example.com/%[2]s
   Published: 2024-02-18`, query, slug), nil
}
