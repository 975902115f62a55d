package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/cli/helpers"
)

// Terminal is swapped by tests.
var Terminal = helpers.StdinTerminal

func addPasswordFlag(cmd *cobra.Command) {
	cmd.Flags().Bool(flagPasswordStdin, false, "Read the administrator password from the first line of stdin")
}

func readCredential(cmd *cobra.Command, required bool) (*domain.Credential, error) {
	fromStdin, _ := cmd.Flags().GetBool(flagPasswordStdin)
	return helpers.ReadCredential(required, fromStdin, cmd.InOrStdin(), cmd.ErrOrStderr(), Terminal)
}
