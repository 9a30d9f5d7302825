package tools

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func callTool(t *testing.T, registry *Registry, name string, values map[string]any) (string, error) {
	t.Helper()
	return registry.Call(context.Background(), name, mustArgs(t, values))
}

func TestCalendarDefaultListing(t *testing.T) {
	out, err := callTool(t, newTestRegistry(t), CalendarToolName, map[string]any{"start_date": "2024-03-20"})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if !strings.Contains(out, "Calendar Events (2024-03-20 to +7 days):") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCalendarRequiresStartDate(t *testing.T) {
	_, err := callTool(t, newTestRegistry(t), CalendarToolName, map[string]any{})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("expected invalid arguments, got %v", err)
	}
}

func TestDatabaseQueryTypes(t *testing.T) {
	registry := newTestRegistry(t)
	cases := map[string]string{
		"select * from users":          "Total rows: 3",
		"INSERT INTO users VALUES (1)": "Successfully inserted 1 row",
		"update users set x = 1":       "Successfully updated 5 rows",
		"DELETE FROM users":            "Successfully deleted 2 rows",
		"DROP TABLE users":             "Invalid query type. Available types: SELECT, INSERT, UPDATE, DELETE, error",
	}
	for query, want := range cases {
		out, err := callTool(t, registry, DatabaseToolName, map[string]any{"query": query})
		if err != nil {
			t.Fatalf("%s: %v", query, err)
		}
		if !strings.Contains(out, want) {
			t.Fatalf("%s: expected %q in %q", query, want, out)
		}
	}
}

func TestTaskFilters(t *testing.T) {
	registry := newTestRegistry(t)
	out, err := callTool(t, registry, TaskManagementToolName, map[string]any{"date": "2024-03-20", "category": "todos"})
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if !strings.HasPrefix(out, "Task List for 2024-03-20:") {
		t.Fatalf("unexpected header %q", out)
	}
	if strings.Count(out, "\n- ") != 2 {
		t.Fatalf("expected two todos, got %q", out)
	}
	if !strings.Contains(out, "- Review pull requests [category: todos] [priority: medium]") {
		t.Fatalf("unexpected formatting %q", out)
	}

	out, err = callTool(t, registry, TaskManagementToolName, map[string]any{"date": "2024-03-20", "assignee": "sam"})
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if out != "No tasks found for this date" {
		t.Fatalf("expected no tasks, got %q", out)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	registry := newTestRegistry(t)
	first, err := callTool(t, registry, SearchWebToolName, map[string]any{"query": "AI developments"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	second, _ := callTool(t, registry, SearchWebToolName, map[string]any{"query": "AI developments"})
	if first != second {
		t.Fatalf("expected deterministic output")
	}
	if !strings.HasPrefix(first, "Search Results for: AI developments") {
		t.Fatalf("unexpected output %q", first)
	}
}

func TestSummaryNeedsNoArguments(t *testing.T) {
	out, err := callTool(t, newTestRegistry(t), SummaryToolName, map[string]any{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "Key points include") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatisticsMean(t *testing.T) {
	out, err := callTool(t, newTestRegistry(t), StatisticalAnalysisToolName, map[string]any{
		"data":          []float64{1, 2, 3, 4},
		"analysis_type": "mean",
	})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if out != "Mean: 2.50" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatisticsUnknownType(t *testing.T) {
	out, err := callTool(t, newTestRegistry(t), StatisticalAnalysisToolName, map[string]any{
		"data":          []float64{1, 2},
		"analysis_type": "kurtosis",
	})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.HasPrefix(out, "Invalid analysis type.") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatisticsEmptyData(t *testing.T) {
	_, err := callTool(t, newTestRegistry(t), StatisticalAnalysisToolName, map[string]any{
		"data":          []float64{},
		"analysis_type": "mean",
	})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("expected invalid arguments, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 0.95)
	if s.N != 8 || s.Mean != 5 || s.Median != 4.5 || s.Mode != 4 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if math.Abs(s.StdDev-2.138) > 0.001 {
		t.Fatalf("unexpected stddev %v", s.StdDev)
	}
	if !(s.Low < s.Mean && s.Mean < s.High) {
		t.Fatalf("expected interval around mean, got [%v, %v]", s.Low, s.High)
	}
}

func TestDescribeSingleValue(t *testing.T) {
	s := Describe([]float64{3}, 0.95)
	if s.StdDev != 0 || s.Low != 3 || s.High != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

type fakeCommandRunner struct {
	calls  [][]string
	stdout string
	stderr string
	block  bool
}

func (f *fakeCommandRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.block {
		<-ctx.Done()
		return "", "", ctx.Err()
	}
	return f.stdout, f.stderr, nil
}

func codeRegistry(t *testing.T, runner CommandRunner) *Registry {
	t.Helper()
	registry, err := NewDefaultRegistry(CatalogOptions{Code: CodeOptions{Runner: runner, Python: "py"}})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return registry
}

func TestCodeToolPythonSuccess(t *testing.T) {
	runner := &fakeCommandRunner{stdout: "hello\n"}
	out, err := callTool(t, codeRegistry(t, runner), CodeToolName, map[string]any{"code": "print('hello')"})
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if !strings.Contains(out, "Python Execution Result:") || !strings.Contains(out, "> Output: hello") {
		t.Fatalf("unexpected output %q", out)
	}
	if len(runner.calls) != 1 || runner.calls[0][0] != "py" {
		t.Fatalf("unexpected runner calls %v", runner.calls)
	}
}

func TestCodeToolStderr(t *testing.T) {
	runner := &fakeCommandRunner{stderr: "NameError: x"}
	out, err := callTool(t, codeRegistry(t, runner), CodeToolName, map[string]any{"code": "x"})
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if !strings.Contains(out, "Python Execution Error:") || !strings.Contains(out, "NameError: x") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCodeToolTimeout(t *testing.T) {
	runner := &fakeCommandRunner{block: true}
	out, err := callTool(t, codeRegistry(t, runner), CodeToolName, map[string]any{"code": "while True: pass", "timeout": 1})
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if out != ExecutionTimedOut {
		t.Fatalf("expected timeout outcome, got %q", out)
	}
}

func TestCodeToolUnsupportedLanguage(t *testing.T) {
	runner := &fakeCommandRunner{}
	out, err := callTool(t, codeRegistry(t, runner), CodeToolName, map[string]any{"code": "puts 1", "language": "ruby"})
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if out != "Unsupported language: ruby. Supported languages: python, typescript" {
		t.Fatalf("unexpected output %q", out)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no commands run")
	}
}

func TestCodeToolTypeScriptCompilesThenRuns(t *testing.T) {
	runner := &fakeCommandRunner{stdout: "42"}
	out, err := callTool(t, codeRegistry(t, runner), CodeToolName, map[string]any{"code": "console.log(42)", "language": "typescript"})
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if len(runner.calls) != 2 || runner.calls[0][0] != "tsc" || runner.calls[1][0] != "node" {
		t.Fatalf("unexpected runner calls %v", runner.calls)
	}
	if !strings.Contains(out, "Typescript Execution Result:") {
		t.Fatalf("unexpected output %q", out)
	}
}
