// Package result classifies raw process outcomes into typed domain errors.
package result

import (
	"errors"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/doeshing/hostwarden/internal/domain"
)

var permissionMarkers = []string{
	"incorrect password",
	"sorry, try again",
	"not in the sudoers",
	"a password is required",
	"no password was provided",
	"a terminal is required",
	"canceled by the user",
	"cancelled by the user",
	"authorization was canceled",
	"authorization was denied",
	"user canceled",
	"access is denied",
	"operation not permitted",
	"permission denied",
}

var toolMarkers = []string{
	"command not found",
	"is not recognized as an internal or external command",
	"no such file or directory: sudo",
	"executable file not found",
}

var notFoundMarkers = []string{
	"could not be found in the keychain",
	"unable to find",
	"cannot find object or property",
	"not found",
}

// Translate maps a process outcome to nil or a *domain.Error.
//
// err is the launch error from ports.CommandRunner; outcome carries exit
// status and stderr. fallback is the kind used for non-zero exits that
// match no marker. Stderr is attached verbatim.
func Translate(op string, fallback domain.ErrorKind, outcome domain.ProcessOutcome, err error) error {
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return domain.NewError(domain.KindToolUnavailable, op, outcome.Stderr, err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return domain.NewError(domain.KindPermissionDenied, op, outcome.Stderr, err)
		}
		return domain.NewError(domain.KindIOFailure, op, outcome.Stderr, err)
	}
	if outcome.Success {
		return nil
	}
	return domain.NewError(Classify(outcome, fallback), op, diagnostic(outcome), nil)
}

// Classify picks the error kind for a failed outcome.
func Classify(outcome domain.ProcessOutcome, fallback domain.ErrorKind) domain.ErrorKind {
	stderr := strings.ToLower(outcome.Stderr)
	switch {
	case containsAny(stderr, toolMarkers) || outcome.ExitCode == 127:
		return domain.KindToolUnavailable
	case containsAny(stderr, permissionMarkers):
		return domain.KindPermissionDenied
	case containsAny(stderr, notFoundMarkers):
		return domain.KindNotFound
	case fallback == "":
		return domain.KindCommandFailed
	default:
		return fallback
	}
}

func diagnostic(outcome domain.ProcessOutcome) string {
	if strings.TrimSpace(outcome.Stderr) != "" {
		return outcome.Stderr
	}
	return outcome.Stdout
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
