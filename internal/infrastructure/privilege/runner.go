// Package privilege implements the privilege broker: a plain command runner
// and the two elevated executors (sudo password relay on Unix, UAC consent
// on Windows) behind ports.ElevatedExecutor.
package privilege

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// LocalRunner runs commands directly on the host without a shell.
type LocalRunner struct {
	logger ports.Logger
}

// NewLocalRunner builds a runner.
func NewLocalRunner(logger ports.Logger) *LocalRunner {
	return &LocalRunner{logger: logger}
}

// Run implements ports.CommandRunner.
func (r *LocalRunner) Run(ctx context.Context, spec domain.CommandSpec, stdin io.Reader) (domain.ProcessOutcome, error) {
	if r.logger != nil {
		r.logger.Debug("running command", map[string]interface{}{"cmd": spec.String()})
	}

	c := exec.CommandContext(ctx, spec.Name, spec.Args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if stdin != nil {
		c.Stdin = stdin
	}

	err := c.Run()
	outcome := domain.ProcessOutcome{
		Success: err == nil,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.ExitCode = exitErr.ExitCode()
		return outcome, nil
	}
	if err != nil {
		outcome.ExitCode = -1
		return outcome, err
	}
	return outcome, nil
}

var _ ports.CommandRunner = (*LocalRunner)(nil)
