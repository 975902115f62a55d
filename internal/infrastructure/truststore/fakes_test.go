package truststore

import (
	"context"
	"io"

	"github.com/doeshing/hostwarden/internal/domain"
)

type scriptedRunner struct {
	calls    []domain.CommandSpec
	outcomes []domain.ProcessOutcome
	err      error
}

func (r *scriptedRunner) Run(_ context.Context, spec domain.CommandSpec, _ io.Reader) (domain.ProcessOutcome, error) {
	r.calls = append(r.calls, spec)
	if r.err != nil {
		return domain.ProcessOutcome{ExitCode: -1}, r.err
	}
	if len(r.outcomes) == 0 {
		return domain.ProcessOutcome{Success: true}, nil
	}
	out := r.outcomes[0]
	r.outcomes = r.outcomes[1:]
	return out, nil
}

type scriptedExecutor struct {
	scriptedRunner
	creds []string
}

func (e *scriptedExecutor) Name() string             { return "fake" }
func (e *scriptedExecutor) RequiresCredential() bool { return true }
func (e *scriptedExecutor) RunElevated(ctx context.Context, spec domain.CommandSpec, cred *domain.Credential) (domain.ProcessOutcome, error) {
	e.creds = append(e.creds, string(cred.Bytes()))
	return e.Run(ctx, spec, nil)
}

type stubBackend struct {
	certs   []domain.Certificate
	err     error
	deleted []string
	added   []string
}

func (b *stubBackend) Name() string             { return "stub" }
func (b *stubBackend) RequiresCredential() bool { return true }
func (b *stubBackend) Add(_ context.Context, pemPath string, _ *domain.Credential) error {
	b.added = append(b.added, pemPath)
	return b.err
}
func (b *stubBackend) Certificates(_ context.Context, subject string) ([]domain.Certificate, string, error) {
	if b.err != nil {
		return nil, "", b.err
	}
	var out []domain.Certificate
	for _, c := range b.certs {
		if c.Matches(subject) {
			out = append(out, c)
		}
	}
	return out, "raw listing", nil
}
func (b *stubBackend) Delete(_ context.Context, fp string, _ *domain.Credential) error {
	b.deleted = append(b.deleted, fp)
	return nil
}
func (b *stubBackend) ManualCommand(pemPath string) string { return "trust " + pemPath }
