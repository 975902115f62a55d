package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/hostwarden/internal/app"
	"github.com/doeshing/hostwarden/internal/infrastructure/cli/helpers"
)

// NewHostsCommand creates the hosts command with all subcommands
func NewHostsCommand(container *app.Container) *cobra.Command {
	hostsCmd := &cobra.Command{
		Use:   "hosts",
		Short: "Query and edit the hosts file",
	}

	hostsCmd.AddCommand(
		newHostsFindCommand(container),
		newHostsExistsCommand(container),
		newHostsAddCommand(container),
		newHostsDeleteCommand(container),
		newHostsCatCommand(container),
	)
	return hostsCmd
}

// newHostsFindCommand creates the 'hosts find' subcommand
func newHostsFindCommand(container *app.Container) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "find <hostname>",
		Short: "Show the first line mentioning hostname with two lines of context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := container.HostsService.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return helpers.WriteJSON(cmd.OutOrStdout(), found)
			}
			helpers.RenderHostsContext(cmd.OutOrStdout(), found)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, flagJSON, false, "Print as JSON")
	return cmd
}

// newHostsExistsCommand creates the 'hosts exists' subcommand
func newHostsExistsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <hostname>",
		Short: "Report whether 127.0.0.1 <hostname> is active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printBool(cmd.OutOrStdout(), container.HostsService.Exists(cmd.Context(), args[0]))
			return nil
		},
	}
}

// newHostsAddCommand creates the 'hosts add' subcommand
func newHostsAddCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <hostname>",
		Short: "Point hostname at 127.0.0.1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := readCredential(cmd, container.Executor.RequiresCredential())
			if err != nil {
				return err
			}
			res, err := container.HostsService.Add(cmd.Context(), args[0], cred)
			if err != nil {
				return err
			}
			helpers.RenderMutation(cmd.OutOrStdout(), "Added", res)
			return nil
		},
	}
	addPasswordFlag(cmd)
	return cmd
}

// newHostsDeleteCommand creates the 'hosts delete' subcommand
func newHostsDeleteCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <hostname>",
		Aliases: []string{"rm"},
		Short:   "Remove every 127.0.0.1 <hostname> line",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := readCredential(cmd, container.Executor.RequiresCredential())
			if err != nil {
				return err
			}
			res, err := container.HostsService.Delete(cmd.Context(), args[0], cred)
			if err != nil {
				return err
			}
			helpers.RenderMutation(cmd.OutOrStdout(), "Deleted", res)
			return nil
		},
	}
	addPasswordFlag(cmd)
	return cmd
}

// newHostsCatCommand creates the 'hosts cat' subcommand
func newHostsCatCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "cat",
		Short: "Print the hosts file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := container.HostsService.Raw(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), raw)
			return nil
		},
	}
}

func printBool(out io.Writer, v bool) {
	fmt.Fprintln(out, v)
}
