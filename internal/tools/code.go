package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CodeToolName names the code execution tool.
const CodeToolName = "code_tool"

// ExecutionTimedOut is the outcome reported when code exceeds its timeout.
const ExecutionTimedOut = "Execution timed out"

// CodeOptions configures the interpreters used by the code tool.
type CodeOptions struct {
	Python         string
	Node           string
	TypeScript     string
	DefaultTimeout time.Duration
	Runner         CommandRunner
	Clock          func() time.Time
}

func (o CodeOptions) withDefaults() CodeOptions {
	if o.Python == "" {
		o.Python = "python3"
	}
	if o.Node == "" {
		o.Node = "node"
	}
	if o.TypeScript == "" {
		o.TypeScript = "tsc"
	}
	if o.DefaultTimeout <= 0 {
		o.DefaultTimeout = 30 * time.Second
	}
	if o.Runner == nil {
		o.Runner = ExecCommandRunner{}
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

func codeTool(opts CodeOptions) Tool {
	opts = opts.withDefaults()
	executor := codeExecutor{opts: opts}
	return Tool{
		Name:        CodeToolName,
		Description: "Executes code snippets in python or typescript and returns the output.",
		Parameters: ObjectSchema(map[string]Schema{
			"code":     StringSchema("The code to execute"),
			"language": StringSchema("Programming language of the code (python or typescript)").WithDefault("python"),
			"timeout":  IntegerSchema("Maximum execution time in seconds").WithDefault(int(opts.DefaultTimeout.Seconds())),
		}, "code"),
		Metadata: Metadata{
			Capabilities:   []string{"Execute Python code", "Run TypeScript", "Track performance metrics", "Handle errors"},
			InputTypes:     []string{"code snippets", "script files", "commands"},
			CommonUseCases: []string{"Code testing", "Script execution", "Performance analysis"},
			InputFormat: `
- code: String containing code to execute
- language: "python" | "typescript" (default: "python")
- timeout: Number of seconds (default: 30)`,
			OutputFormat: `Python Execution Result:
> Output: Hello, World!
> Execution time: 0.023s`,
		},
		Handler: executor.handle,
	}
}

type codeExecutor struct {
	opts CodeOptions
}

func (e codeExecutor) handle(ctx context.Context, args Args) (string, error) {
	code, err := args.RequiredString("code")
	if err != nil {
		return "", err
	}
	language := "python"
	if value, ok, err := args.OptionalString("language"); err != nil {
		return "", err
	} else if ok && value != "" {
		language = strings.ToLower(value)
	}
	timeout := e.opts.DefaultTimeout
	if value, err := args.OptionalInt("timeout"); err != nil {
		return "", err
	} else if value != nil && *value > 0 {
		timeout = time.Duration(*value) * time.Second
	}

	switch language {
	case "python", "typescript":
	default:
		return fmt.Sprintf("Unsupported language: %s. Supported languages: python, typescript", language), nil
	}

	dir, err := os.MkdirTemp("", "toolbench-code-")
	if err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := e.opts.Clock()
	var stdout, stderr string
	if language == "python" {
		stdout, stderr, err = e.runPython(runCtx, dir, code)
	} else {
		stdout, stderr, err = e.runTypeScript(runCtx, dir, code)
	}
	elapsed := e.opts.Clock().Sub(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return ExecutionTimedOut, nil
	}
	if err != nil {
		return "", err
	}
	title := strings.ToUpper(language[:1]) + language[1:]
	if strings.TrimSpace(stderr) != "" {
		return fmt.Sprintf("\n%s Execution Error:\n> Error: %s\n", title, strings.TrimSpace(stderr)), nil
	}
	return fmt.Sprintf("\n%s Execution Result:\n> Output: %s\n> Execution time: %.3fs\n",
		title, strings.TrimSpace(stdout), elapsed.Seconds()), nil
}

func (e codeExecutor) runPython(ctx context.Context, dir, code string) (string, string, error) {
	path := filepath.Join(dir, "main.py")
	if err := os.WriteFile(path, []byte(code), 0o600); err != nil {
		return "", "", fmt.Errorf("write source: %w", err)
	}
	return e.opts.Runner.Run(ctx, dir, e.opts.Python, path)
}

func (e codeExecutor) runTypeScript(ctx context.Context, dir, code string) (string, string, error) {
	path := filepath.Join(dir, "main.ts")
	if err := os.WriteFile(path, []byte(code), 0o600); err != nil {
		return "", "", fmt.Errorf("write source: %w", err)
	}
	stdout, stderr, err := e.opts.Runner.Run(ctx, dir, e.opts.TypeScript, path)
	if err != nil || strings.TrimSpace(stderr) != "" {
		return stdout, stderr, err
	}
	// tsc reports type errors on stdout.
	if strings.Contains(stdout, "error TS") {
		return "", stdout, nil
	}
	return e.opts.Runner.Run(ctx, dir, e.opts.Node, filepath.Join(dir, "main.js"))
}
