package cucumber

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"toolbench/internal/cli"
	"toolbench/internal/example"
	"toolbench/internal/testutil"
)

const workspaceConfig = `version: 1
database:
  path: toolbench.duckdb
provider:
  name: openrouter
  base_url: %s
  model: fake-model
  api_key_env: TOOLBENCH_FEATURE_KEY
runner:
  output_dir: runs
logging:
  level: error
`

// aWorkspaceBackedByAFakeModel writes a config that points at a scripted model.
func (s *featureState) aWorkspaceBackedByAFakeModel() error {
	dir, err := os.MkdirTemp("", "toolbench-feature-*")
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	s.workDir = dir
	s.server = testutil.NewChatServer()
	s.configPath = filepath.Join(dir, "toolbench.yml")
	config := fmt.Sprintf(workspaceConfig, s.server.URL())
	if err := os.WriteFile(s.configPath, []byte(config), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := s.setEnv("TOOLBENCH_FEATURE_KEY", "feature-key"); err != nil {
		return err
	}
	if err := s.setEnv("LLM_MODEL", ""); err != nil {
		return err
	}
	return s.setEnv("LLM_PROVIDER", "")
}

func (s *featureState) theFakeModelCalls(tools, match string) error {
	if s.server == nil {
		return fmt.Errorf("no fake model configured")
	}
	var calls []testutil.ChatToolCall
	for _, name := range splitList(tools) {
		calls = append(calls, testutil.ChatToolCall{Name: name, Args: sampleArgs(name)})
	}
	s.server.AddRule(testutil.ChatRule{Match: match, Tools: calls})
	return nil
}

func (s *featureState) theFakeModelFails(match string) error {
	if s.server == nil {
		return fmt.Errorf("no fake model configured")
	}
	s.server.AddRule(testutil.ChatRule{Match: match, Status: 500})
	return nil
}

// sampleArgs returns arguments that satisfy each catalog schema.
func sampleArgs(tool string) map[string]any {
	switch tool {
	case "calendar_tool":
		return map[string]any{"start_date": "2025-03-20"}
	case "database_tool":
		return map[string]any{"query": "SELECT * FROM sales"}
	case "search_web_tool":
		return map[string]any{"query": "latest news"}
	case "statistical_analysis_tool":
		return map[string]any{"data": []float64{1, 2, 3}, "analysis_type": "mean"}
	case "task_management_tool":
		return map[string]any{"date": "2025-03-20"}
	default:
		return map[string]any{}
	}
}

func (s *featureState) thesePromptsAreImported(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("expected a header row and at least one prompt")
	}
	corpus := example.Corpus{}
	for _, row := range table.Rows[1:] {
		if len(row.Cells) < 3 {
			return fmt.Errorf("expected prompt, category and tools columns")
		}
		corpus.Prompts = append(corpus.Prompts, example.CorpusItem{
			Prompt:       row.Cells[0].Value,
			Category:     row.Cells[1].Value,
			CorrectTools: splitList(row.Cells[2].Value),
		})
	}
	payload, err := json.Marshal(corpus)
	if err != nil {
		return err
	}
	path := filepath.Join(s.workDir, "corpus.json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	if err := s.iRunCommand("toolbench import " + path); err != nil {
		return err
	}
	if s.exitCode != cli.ExitOK {
		return fmt.Errorf("import failed (%d): %s", s.exitCode, s.stderr.String())
	}
	return nil
}

// iRunCommand executes a CLI command against the scenario workspace.
func (s *featureState) iRunCommand(command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "toolbench" {
		args = args[1:]
	}
	if s.configPath != "" {
		args = append([]string{"--config", s.configPath}, args...)
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}
