package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// MutationResult reports what a mutating call did.
type MutationResult struct {
	Target  string
	Changed bool
	// Backup is nil when the pre-mutation snapshot failed.
	Backup *BackupRecord
}

// ValidateHostname rejects names that would corrupt a hosts line or escape a
// directory when used as a path component.
func ValidateHostname(op, hostname string) error {
	switch {
	case hostname == "":
		return NewError(KindInvalidInput, op, "hostname is empty", nil)
	case hostname == "." || hostname == "..":
		return NewError(KindInvalidInput, op, fmt.Sprintf("hostname %q is not a name", hostname), nil)
	case strings.ContainsAny(hostname, `/\#`):
		return NewError(KindInvalidInput, op, fmt.Sprintf("hostname %q contains a path or comment character", hostname), nil)
	}
	for _, r := range hostname {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return NewError(KindInvalidInput, op, fmt.Sprintf("hostname %q contains whitespace", hostname), nil)
		}
	}
	return nil
}
