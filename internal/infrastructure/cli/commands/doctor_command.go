package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/hostwarden/internal/app"
	"github.com/doeshing/hostwarden/internal/infrastructure/cli/helpers"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd, cmd.OutOrStdout(), container)
		},
	}
}

// runDoctorDiagnostics runs environment diagnostics
func runDoctorDiagnostics(cmd *cobra.Command, out io.Writer, container *app.Container) error {
	if container.DoctorService == nil {
		return errors.New(ErrDoctorServiceUnavailable)
	}

	report, err := container.DoctorService.Run(cmd.Context())

	// Display report even if there were errors
	helpers.RenderHealthReport(out, report)

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}
	if report.Failed() {
		return errors.New("one or more checks failed")
	}
	return nil
}
