package privilege

import (
	"bytes"
	"context"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// UnixSudoExecutor relays a password to sudo over stdin.
//
// sudo runs with -k so cached credentials are ignored and the password line
// is always consumed by sudo itself, never forwarded to the target command.
// -p "" suppresses the prompt text on stderr.
type UnixSudoExecutor struct {
	runner ports.CommandRunner
	sudo   string
}

// NewUnixSudoExecutor builds an executor around runner.
func NewUnixSudoExecutor(runner ports.CommandRunner) *UnixSudoExecutor {
	return &UnixSudoExecutor{runner: runner, sudo: "sudo"}
}

func (e *UnixSudoExecutor) Name() string { return "sudo" }

func (e *UnixSudoExecutor) RequiresCredential() bool { return true }

// RunElevated implements ports.ElevatedExecutor. The stdin buffer holding
// the password is zeroed once the process exits.
func (e *UnixSudoExecutor) RunElevated(ctx context.Context, spec domain.CommandSpec, cred *domain.Credential) (domain.ProcessOutcome, error) {
	secret := cred.Bytes()
	buf := make([]byte, len(secret)+1)
	copy(buf, secret)
	buf[len(secret)] = '\n'
	defer zero(buf)

	return e.runner.Run(ctx, e.command(spec), bytes.NewReader(buf))
}

func (e *UnixSudoExecutor) command(spec domain.CommandSpec) domain.CommandSpec {
	args := make([]string, 0, len(spec.Args)+6)
	args = append(args, "-k", "-S", "-p", "", "--", spec.Name)
	args = append(args, spec.Args...)
	return domain.CommandSpec{Name: e.sudo, Args: args}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

var _ ports.ElevatedExecutor = (*UnixSudoExecutor)(nil)
