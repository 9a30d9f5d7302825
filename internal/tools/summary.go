package tools

import "context"

// SummaryToolName names the document summary tool.
const SummaryToolName = "summary_tool"

const mockSummary = `
- The document discusses various topics.
- Key points include the importance of data analysis and effective communication.
- Concludes with future trends in technology.
`

func summaryTool() Tool {
	return Tool{
		Name: SummaryToolName,
		Description: "Get a summary of the documents the user uploaded to the database. " +
			"No text argument is needed.",
		Parameters: ObjectSchema(map[string]Schema{}),
		Metadata: Metadata{
			Capabilities:   []string{"Summarize documents", "Extract key points", "Identify main topics"},
			InputTypes:     []string{"documents", "text content", "articles"},
			CommonUseCases: []string{"Legal document analysis", "Report summarization", "Content briefing"},
			InputFormat:    "text: Optional[str] - The text to summarize",
			OutputFormat: `- The document discusses various topics.
- Key points include the importance of data analysis and effective communication.
- Concludes with future trends in technology.`,
		},
		Handler: func(context.Context, Args) (string, error) {
			return mockSummary, nil
		},
	}
}
