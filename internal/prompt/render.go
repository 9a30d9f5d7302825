package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/generation.tmpl
var generationSource string

var generationTemplate = template.Must(template.New("generation").Parse(generationSource))

// FewShotExamples are the worked examples shown to the generator model.
var FewShotExamples = []string{
	`Prompt: Calculate the average engagement score and standard deviation for these user scores: [0.92, 0.85, 0.78, 0.95]
Prompt Category: statistical_analysis
Correct Tools: ['statistical_analysis_tool']`,
	`Prompt: Find all calendar events labeled as 'meetings' for next week with more than 5 participants
Prompt Category: calendar_query
Correct Tools: ['calendar_tool', 'statistical_analysis_tool']`,
	`Prompt: Get all users from the database who have posted more than 100 times and have an engagement score above 0.8
Prompt Category: database_query
Correct Tools: ['database_tool']`,
	`Prompt: Create a summary of all my legal documents related to case #123
Prompt Category: document_summary
Correct Tools: ['summary_tool']`,
}

// GenerationData fills the example generation template.
type GenerationData struct {
	ToolDescriptions string
	NumSamples       int
	Examples         []string
}

// RenderGenerationPrompt builds the instruction sent to the generator model.
func RenderGenerationPrompt(data GenerationData) (string, error) {
	if data.NumSamples <= 0 {
		return "", fmt.Errorf("num samples must be positive")
	}
	if data.Examples == nil {
		data.Examples = FewShotExamples
	}
	var builder strings.Builder
	if err := generationTemplate.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("render generation prompt: %w", err)
	}
	return builder.String(), nil
}
