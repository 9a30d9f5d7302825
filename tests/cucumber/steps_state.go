package cucumber

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/cucumber/godog"

	"toolbench/internal/example"
	"toolbench/internal/testutil"
)

// featureState holds scenario state for the feature suite.
type featureState struct {
	workDir     string
	configPath  string
	server      *testutil.ChatServer
	previousEnv map[string]*string
	stdout      bytes.Buffer
	stderr      bytes.Buffer
	exitCode    int

	block   string
	parsed  example.BenchmarkExample
	parseOK bool
	scored  bool
}

// InitializeScenario wires steps to the feature state.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^the model output block:$`, state.theModelOutputBlock)
	ctx.Step(`^I parse the block$`, state.iParseTheBlock)
	ctx.Step(`^the example has prompt "([^"]*)", category "([^"]*)" and tools "([^"]*)"$`, state.theExampleHas)
	ctx.Step(`^no example is produced$`, state.noExampleIsProduced)

	ctx.Step(`^I score expected "([^"]*)" against calls "([^"]*)" (in any order|in order)$`, state.iScore)
	ctx.Step(`^the prompt (passes|fails)$`, state.thePromptIs)

	ctx.Step(`^a toolbench workspace backed by a fake model$`, state.aWorkspaceBackedByAFakeModel)
	ctx.Step(`^the fake model calls "([^"]+)" for prompts mentioning "([^"]+)"$`, state.theFakeModelCalls)
	ctx.Step(`^the fake model fails for prompts mentioning "([^"]+)"$`, state.theFakeModelFails)
	ctx.Step(`^these prompts are imported:$`, state.thesePromptsAreImported)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the exit code is (\d+)$`, state.theExitCodeIs)
	ctx.Step(`^the output contains "([^"]+)"$`, state.theOutputContains)
	ctx.Step(`^the output lists these commands:$`, state.theOutputListsCommands)
	ctx.Step(`^the report shows a success rate of ([\d.]+)% for model "([^"]+)"$`, state.theReportShowsSuccessRate)
	ctx.Step(`^the results file records (\d+) prompts$`, state.theResultsFileRecords)
}

// reset clears buffers and state before each scenario.
func (s *featureState) reset() {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.previousEnv = map[string]*string{}
	s.workDir = ""
	s.configPath = ""
	s.server = nil
	s.block = ""
	s.parsed = example.BenchmarkExample{}
	s.parseOK = false
	s.scored = false
}

// cleanup restores the environment and removes temporary files.
func (s *featureState) cleanup() {
	if s.server != nil {
		s.server.Close()
	}
	for key, value := range s.previousEnv {
		if value == nil {
			_ = os.Unsetenv(key)
			continue
		}
		_ = os.Setenv(key, *value)
	}
	if s.workDir != "" {
		_ = os.RemoveAll(s.workDir)
	}
}

// setEnv records and sets an environment variable for the scenario.
func (s *featureState) setEnv(key, value string) error {
	if _, exists := s.previousEnv[key]; !exists {
		if current, ok := os.LookupEnv(key); ok {
			previous := current
			s.previousEnv[key] = &previous
		} else {
			s.previousEnv[key] = nil
		}
	}
	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("set env %s: %w", key, err)
	}
	return nil
}
