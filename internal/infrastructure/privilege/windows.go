package privilege

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// WindowsElevationExecutor launches the command through the UAC consent
// prompt and waits for it to exit. No credential is relayed.
//
// The elevated child runs in its own console, so only its exit code is
// observable; PowerShell's own stderr carries consent failures.
type WindowsElevationExecutor struct {
	runner     ports.CommandRunner
	powershell string
	elevated   func() bool
}

// NewWindowsElevationExecutor builds an executor around runner.
func NewWindowsElevationExecutor(runner ports.CommandRunner) *WindowsElevationExecutor {
	return &WindowsElevationExecutor{
		runner:     runner,
		powershell: "powershell.exe",
		elevated:   processElevated,
	}
}

func (e *WindowsElevationExecutor) Name() string { return "uac" }

func (e *WindowsElevationExecutor) RequiresCredential() bool { return false }

// RunElevated implements ports.ElevatedExecutor. cred is ignored and zeroed.
func (e *WindowsElevationExecutor) RunElevated(ctx context.Context, spec domain.CommandSpec, cred *domain.Credential) (domain.ProcessOutcome, error) {
	cred.Zero()
	if e.elevated != nil && e.elevated() {
		return e.runner.Run(ctx, spec, nil)
	}
	return e.runner.Run(ctx, e.command(spec), nil)
}

func (e *WindowsElevationExecutor) command(spec domain.CommandSpec) domain.CommandSpec {
	return domain.CommandSpec{
		Name: e.powershell,
		Args: []string{"-NoProfile", "-NonInteractive", "-Command", startProcessScript(spec)},
	}
}

// startProcessScript renders a Start-Process invocation. Every value is a
// PowerShell single-quoted literal, so no argument is ever interpreted by
// PowerShell; the argument list is quoted for the Windows command line.
//
// A declined consent prompt or a failed launch exits 1 with the error on
// stderr.
func startProcessScript(spec domain.CommandSpec) string {
	var b strings.Builder
	b.WriteString("$ErrorActionPreference = 'Stop'; try { ")
	fmt.Fprintf(&b, "$p = Start-Process -FilePath %s", psQuote(spec.Name))
	if len(spec.Args) > 0 {
		quoted := make([]string, len(spec.Args))
		for i, arg := range spec.Args {
			quoted[i] = EscapeArg(arg)
		}
		fmt.Fprintf(&b, " -ArgumentList %s", psQuote(strings.Join(quoted, " ")))
	}
	b.WriteString(" -Verb RunAs -WindowStyle Hidden -Wait -PassThru")
	b.WriteString(" } catch { [Console]::Error.WriteLine($_.Exception.Message); exit 1 }; ")
	b.WriteString(notStartedGuard)
	b.WriteString("exit $p.ExitCode")
	return b.String()
}

const notStartedGuard = "if ($null -eq $p) { [Console]::Error.WriteLine('elevated process was not started'); exit 1 }; "

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// EscapeArg quotes s following the CommandLineToArgvW rules.
func EscapeArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			slashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, slashes+1))
			slashes = 0
		default:
			slashes = 0
		}
		b.WriteByte(c)
	}
	b.WriteString(strings.Repeat(`\`, slashes))
	b.WriteByte('"')
	return b.String()
}

var _ ports.ElevatedExecutor = (*WindowsElevationExecutor)(nil)
