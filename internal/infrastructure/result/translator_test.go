package result

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hostwarden/internal/domain"
)

func TestTranslateSuccess(t *testing.T) {
	assert.NoError(t, Translate("add-host", domain.KindIOFailure, domain.ProcessOutcome{Success: true}, nil))
}

func TestTranslateClassifiesStderr(t *testing.T) {
	tests := []struct {
		name     string
		outcome  domain.ProcessOutcome
		fallback domain.ErrorKind
		want     domain.ErrorKind
	}{
		{
			name:    "wrong sudo password",
			outcome: domain.ProcessOutcome{ExitCode: 1, Stderr: "Sorry, try again.\nsudo: 1 incorrect password attempt\n"},
			want:    domain.KindPermissionDenied,
		},
		{
			name:    "uac declined",
			outcome: domain.ProcessOutcome{ExitCode: 1, Stderr: "Start-Process : This command cannot be run due to the error: The operation was canceled by the user."},
			want:    domain.KindPermissionDenied,
		},
		{
			name:    "missing tool",
			outcome: domain.ProcessOutcome{ExitCode: 127, Stderr: "sudo: security: command not found"},
			want:    domain.KindToolUnavailable,
		},
		{
			name:    "keychain item missing",
			outcome: domain.ProcessOutcome{ExitCode: 44, Stderr: "security: SecKeychainSearchCopyNext: The specified item could not be found in the keychain."},
			want:    domain.KindNotFound,
		},
		{
			name:     "generic hosts failure",
			outcome:  domain.ProcessOutcome{ExitCode: 1, Stderr: "cp: cannot create regular file: Read-only file system"},
			fallback: domain.KindIOFailure,
			want:     domain.KindIOFailure,
		},
		{
			name:    "generic tool failure",
			outcome: domain.ProcessOutcome{ExitCode: 2, Stderr: "SecTrustSettingsSetTrustSettings: bad cert"},
			want:    domain.KindCommandFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate("op", tt.fallback, tt.outcome, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, domain.KindOf(err))
			assert.Contains(t, err.Error(), tt.outcome.Stderr, "stderr is propagated verbatim")
		})
	}
}

func TestTranslateLaunchErrors(t *testing.T) {
	notFound := &exec.Error{Name: "certutil", Err: exec.ErrNotFound}
	err := Translate("add-cert", domain.KindCommandFailed, domain.ProcessOutcome{ExitCode: -1}, notFound)
	assert.True(t, errors.Is(err, domain.ErrToolUnavailable))
	assert.ErrorIs(t, err, exec.ErrNotFound)

	err = Translate("add-host", domain.KindIOFailure, domain.ProcessOutcome{}, fmt.Errorf("pipe broke"))
	assert.True(t, errors.Is(err, domain.ErrIOFailure))
}

func TestTranslateFallsBackToStdout(t *testing.T) {
	err := Translate("remove", domain.KindCommandFailed, domain.ProcessOutcome{ExitCode: 1, Stdout: "CertUtil: -delstore command FAILED: 0x80070005"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0x80070005")
}
