package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/hostwarden/internal/app"
	"github.com/doeshing/hostwarden/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.Options{ConfigPath: opts.ConfigPath, Verbose: opts.Verbose})
	if err != nil {
		return nil, err
	}
	return NewRootCommand(container), nil
}

// NewRootCommand assembles the command tree around an existing container.
func NewRootCommand(container *app.Container) *cobra.Command {
	root := &cobra.Command{
		Use:   "hostwarden",
		Short: "Edit the hosts file and the certificate trust store",
		Long: "hostwarden adds and removes local hostname mappings and trusted certificates " +
			"using elevated privileges obtained per call.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(commands.NewHostsCommand(container))
	root.AddCommand(commands.NewCertCommand(container))
	root.AddCommand(commands.NewBackupCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root
}
