// Package version carries build metadata injected with -ldflags -X.
package version

var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)
