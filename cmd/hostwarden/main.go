package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/hostwarden/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitFailure)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("HOSTWARDEN_DEBUG"), "1") || strings.EqualFold(os.Getenv("HOSTWARDEN_DEBUG"), "true")
}
