package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandRunner runs an interpreter or compiler for the code tool.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecCommandRunner is the os/exec CommandRunner.
type ExecCommandRunner struct{}

// Run returns err only when the program could not run to completion. A
// non-zero exit is reported through stderr.
func (ExecCommandRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", "", fmt.Errorf("%s not found", name)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		err = nil
	}
	return stdout.String(), stderr.String(), err
}
