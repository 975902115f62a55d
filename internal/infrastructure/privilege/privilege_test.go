package privilege

import (
	"context"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/result"
)

type recordingRunner struct {
	spec    domain.CommandSpec
	stdin   string
	outcome domain.ProcessOutcome
	err     error
}

func (r *recordingRunner) Run(_ context.Context, spec domain.CommandSpec, stdin io.Reader) (domain.ProcessOutcome, error) {
	r.spec = spec
	if stdin != nil {
		data, _ := io.ReadAll(stdin)
		r.stdin = string(data)
	}
	return r.outcome, r.err
}

func TestUnixSudoExecutorPassesPasswordOnStdinOnly(t *testing.T) {
	runner := &recordingRunner{outcome: domain.ProcessOutcome{Success: true}}
	ex := NewUnixSudoExecutor(runner)
	cred := domain.NewCredential([]byte("s3cret"))

	outcome, err := ex.RunElevated(context.Background(), domain.Command("cp", "/tmp/staged", "/etc/hosts"), cred)
	require.NoError(t, err)
	assert.True(t, outcome.Success)

	assert.Equal(t, "sudo", runner.spec.Name)
	assert.Equal(t, []string{"-k", "-S", "-p", "", "--", "cp", "/tmp/staged", "/etc/hosts"}, runner.spec.Args)
	assert.Equal(t, "s3cret\n", runner.stdin)
	for _, arg := range runner.spec.Args {
		assert.NotContains(t, arg, "s3cret")
	}
	assert.True(t, ex.RequiresCredential())
}

func TestUnixSudoExecutorHostnameStaysOneArgument(t *testing.T) {
	runner := &recordingRunner{}
	ex := NewUnixSudoExecutor(runner)
	_, _ = ex.RunElevated(context.Background(), domain.Command("echo", "evil.com; rm -rf /"), nil)
	assert.Equal(t, "evil.com; rm -rf /", runner.spec.Args[len(runner.spec.Args)-1])
	assert.Equal(t, "\n", runner.stdin)
}

func TestWindowsElevationExecutorBuildsStartProcess(t *testing.T) {
	runner := &recordingRunner{outcome: domain.ProcessOutcome{Success: true}}
	ex := NewWindowsElevationExecutor(runner)
	ex.elevated = func() bool { return false }
	cred := domain.NewCredential([]byte("ignored"))

	_, err := ex.RunElevated(context.Background(), domain.Command("certutil", "-user", "-addstore", "Root", `C:\Users\o'neil\cert dir\cert.pem`), cred)
	require.NoError(t, err)

	assert.True(t, cred.Empty(), "credential is dropped")
	assert.Equal(t, "powershell.exe", runner.spec.Name)
	require.Len(t, runner.spec.Args, 4)
	script := runner.spec.Args[3]
	assert.Equal(t,
		`$ErrorActionPreference = 'Stop'; try { `+
			`$p = Start-Process -FilePath 'certutil' -ArgumentList '-user -addstore Root "C:\Users\o''neil\cert dir\cert.pem"' -Verb RunAs -WindowStyle Hidden -Wait -PassThru`+
			` } catch { [Console]::Error.WriteLine($_.Exception.Message); exit 1 }; `+
			`if ($null -eq $p) { [Console]::Error.WriteLine('elevated process was not started'); exit 1 }; `+
			`exit $p.ExitCode`,
		script)
	assert.Empty(t, runner.stdin)
	assert.False(t, ex.RequiresCredential())
}

func TestStartProcessScriptFailsWhenLaunchFails(t *testing.T) {
	script := startProcessScript(domain.Command("cmd.exe", "/c", "copy", "/Y", "a", "b"))

	assert.True(t, strings.HasPrefix(script, "$ErrorActionPreference = 'Stop'; try { $p = Start-Process"))
	assert.Contains(t, script, "catch { [Console]::Error.WriteLine($_.Exception.Message); exit 1 }")
	assert.Contains(t, script, "if ($null -eq $p)")

	guard := strings.Index(script, "if ($null -eq $p)")
	exitAt := strings.LastIndex(script, "exit $p.ExitCode")
	assert.Less(t, guard, exitAt, "null process check runs before the exit status is read")
	assert.True(t, strings.HasSuffix(script, "exit $p.ExitCode"))
}

func TestWindowsCancelledConsentIsPermissionDenied(t *testing.T) {
	runner := &recordingRunner{outcome: domain.ProcessOutcome{
		ExitCode: 1,
		Stderr:   "This command cannot be run due to the error: The operation was canceled by the user.",
	}}
	ex := NewWindowsElevationExecutor(runner)
	ex.elevated = func() bool { return false }

	outcome, err := ex.RunElevated(context.Background(), domain.Command("cmd.exe", "/c", "copy", "/Y", "a", "b"), nil)
	require.NoError(t, err)
	translated := result.Translate("write hosts", domain.KindIOFailure, outcome, err)
	assert.ErrorIs(t, translated, domain.ErrPermissionDenied)
}

func TestWindowsElevationExecutorRunsDirectlyWhenElevated(t *testing.T) {
	runner := &recordingRunner{}
	ex := NewWindowsElevationExecutor(runner)
	ex.elevated = func() bool { return true }

	_, _ = ex.RunElevated(context.Background(), domain.Command("cmd.exe", "/c", "copy"), nil)
	assert.Equal(t, "cmd.exe", runner.spec.Name)
}

func TestEscapeArg(t *testing.T) {
	tests := map[string]string{
		"":            `""`,
		"plain":       "plain",
		"two words":   `"two words"`,
		`say "hi"`:    `"say \"hi\""`,
		`trail dir\`:  `"trail dir\\"`,
		`a\\"b c`:     `"a\\\\\"b c"`,
		`C:\no\space`: `C:\no\space`,
	}
	for in, want := range tests {
		assert.Equal(t, want, EscapeArg(in), in)
	}
}

func TestNewElevatedExecutor(t *testing.T) {
	assert.Equal(t, "uac", NewElevatedExecutor("windows", &recordingRunner{}).Name())
	assert.Equal(t, "sudo", NewElevatedExecutor("darwin", &recordingRunner{}).Name())
	assert.Equal(t, "sudo", NewElevatedExecutor("linux", &recordingRunner{}).Name())
}

func TestLocalRunnerReportsExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
	r := NewLocalRunner(nil)
	outcome, err := r.Run(context.Background(), domain.Command("sh", "-c", "echo out; echo oops >&2; exit 3"), nil)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, 3, outcome.ExitCode)
	assert.Equal(t, "out\n", outcome.Stdout)
	assert.Equal(t, "oops\n", outcome.Stderr)
}

func TestLocalRunnerFeedsStdin(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not found")
	}
	r := NewLocalRunner(nil)
	outcome, err := r.Run(context.Background(), domain.Command("cat"), strings.NewReader("line\n"))
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "line\n", outcome.Stdout)
}

func TestLocalRunnerMissingTool(t *testing.T) {
	r := NewLocalRunner(nil)
	_, err := r.Run(context.Background(), domain.Command("hostwarden-no-such-tool"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
