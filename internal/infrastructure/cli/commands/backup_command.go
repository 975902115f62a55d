package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/hostwarden/internal/app"
	"github.com/doeshing/hostwarden/internal/infrastructure/cli/helpers"
)

// NewBackupCommand creates the backup command.
func NewBackupCommand(container *app.Container) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Inspect hosts file backups",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List hosts file backups, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.Backups.List()
			if err != nil {
				return fmt.Errorf("failed to list backups: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNoBackups)
				return nil
			}
			helpers.RenderBackups(cmd.OutOrStdout(), records)
			return nil
		},
	}

	dirCmd := &cobra.Command{
		Use:   "dir",
		Short: "Print the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.Backups.Dir())
			return nil
		},
	}

	backupCmd.AddCommand(listCmd, dirCmd)
	return backupCmd
}
