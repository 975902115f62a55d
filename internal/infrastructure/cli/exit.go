package cli

import "github.com/doeshing/hostwarden/internal/domain"

// Process exit codes, one per error kind.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitNotFound         = 2
	ExitPermissionDenied = 3
	ExitToolUnavailable  = 4
	ExitAmbiguousMatch   = 5
	ExitInvalidInput     = 6
)

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return ExitNotFound
	case domain.KindPermissionDenied:
		return ExitPermissionDenied
	case domain.KindToolUnavailable:
		return ExitToolUnavailable
	case domain.KindAmbiguousMatch:
		return ExitAmbiguousMatch
	case domain.KindInvalidInput:
		return ExitInvalidInput
	default:
		return ExitFailure
	}
}
