//go:build !windows

package privilege

func processElevated() bool {
	return false
}
