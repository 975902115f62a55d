package privilege

import (
	"github.com/doeshing/hostwarden/internal/ports"
)

// NewElevatedExecutor picks the executor for goos.
func NewElevatedExecutor(goos string, runner ports.CommandRunner) ports.ElevatedExecutor {
	if goos == "windows" {
		return NewWindowsElevationExecutor(runner)
	}
	return NewUnixSudoExecutor(runner)
}
