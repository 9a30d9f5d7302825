package example

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog []string

func (c stubCatalog) Names() []string { return slices.Clone(c) }

func (c stubCatalog) Unknown(names []string) []string {
	var out []string
	for _, name := range names {
		if !slices.Contains(c, name) {
			out = append(out, name)
		}
	}
	return out
}

var testCatalog = stubCatalog{"calendar_tool", "database_tool", "summary_tool"}

func writeFile(t *testing.T, name, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func TestLoadCorpusJSON(t *testing.T) {
	path := writeFile(t, "prompts.json", `{
  "prompts": [
    {"prompt": " What's on Friday? ", "prompt_category": "calendar", "correct_tool": "calendar_tool"},
    {"prompt": "Top posters", "prompt_category": "db", "correct_tools": ["database_tool"],
     "tools_available": ["database_tool", "calendar_tool"], "expected_order": true}
  ]
}`)
	examples, err := LoadCorpus(path, testCatalog)
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, "What's on Friday?", examples[0].Prompt)
	assert.Equal(t, []string{"calendar_tool"}, examples[0].CorrectTools)
	assert.Equal(t, []string(testCatalog), examples[0].ToolsAvailable)
	assert.Equal(t, []string{"database_tool", "calendar_tool"}, examples[1].ToolsAvailable)
	assert.True(t, examples[1].ExpectedOrder)
}

func TestLoadCorpusYAML(t *testing.T) {
	path := writeFile(t, "prompts.yml", `version: 1
prompts:
  - prompt: Summarize the case file
    prompt_category: document_summary
    correct_tools: [summary_tool]
`)
	examples, err := LoadCorpus(path, testCatalog)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "document_summary", examples[0].Category)
}

func TestLoadCorpusRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "prompts.yml", "prompts:\n  - prompt: p\n    category: c\n")
	_, err := LoadCorpus(path, testCatalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestLoadCorpusValidation(t *testing.T) {
	path := writeFile(t, "prompts.json", `{"prompts": [
  {"prompt": "", "prompt_category": "", "correct_tools": []},
  {"prompt": "p", "prompt_category": "c", "correct_tools": ["code_tool"], "tools_available": ["calendar_tool"]}
]}`)
	_, err := LoadCorpus(path, testCatalog)
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	fields := make([]string, 0, len(validation.Issues))
	for _, issue := range validation.Issues {
		fields = append(fields, issue.Field)
	}
	assert.Contains(t, fields, "prompts[0].prompt")
	assert.Contains(t, fields, "prompts[0].prompt_category")
	assert.Contains(t, fields, "prompts[0].correct_tools")
	assert.Contains(t, fields, "prompts[1].correct_tools[0]")
}

func TestLoadCorpusMultipleDocuments(t *testing.T) {
	path := writeFile(t, "prompts.yaml", "prompts: []\n---\nprompts: []\n")
	_, err := LoadCorpus(path, testCatalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoadCorpusMultipleJSONDocuments(t *testing.T) {
	path := writeFile(t, "prompts.json", `{"prompts": []}
{"prompts": []}
`)
	_, err := LoadCorpus(path, testCatalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestBenchmarkExampleValidate(t *testing.T) {
	ex := BenchmarkExample{Prompt: "p", CorrectTools: []string{"database_tool"}}.WithDefaultTools(testCatalog)
	assert.NoError(t, ex.Validate())

	ex.ToolsAvailable = []string{"calendar_tool"}
	assert.Error(t, ex.Validate())
}

func TestUnknownTools(t *testing.T) {
	ex := BenchmarkExample{CorrectTools: []string{"calendar_tool", "weather_tool"}}
	assert.Equal(t, []string{"weather_tool"}, UnknownTools(ex, testCatalog))
}
