package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes external commands. It exists so tests can swap in
// a fake and exercise the sequence without touching the host.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner runs commands on the host via os/exec. Cancelling the context
// kills the child process.
type ExecRunner struct{}

// Run executes the command and captures its output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), stderr.String(),
			fmt.Errorf("execute %s %s: %w", name, strings.Join(args, " "), err)
	}
	return stdout.String(), stderr.String(), nil
}
