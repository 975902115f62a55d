package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/hostwarden/internal/app"
	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the audit trail of hosts and trust store changes",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
		newHistoryPathCommand(container),
	)
	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int
	var search string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, search, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show (0 for all)")
	cmd.Flags().StringVar(&search, "search", "", "Only entries whose operation or target contains this text")
	cmd.Flags().BoolVar(&asJSON, flagJSON, false, "Print as JSON")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			if err := container.HistoryStore.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			return nil
		},
	}
}

// newHistoryPathCommand creates the 'history path' subcommand
func newHistoryPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the history store location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.HistoryStore.Path())
			return nil
		},
	}
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(out io.Writer, container *app.Container, limit int, search string, asJSON bool) error {
	store := container.HistoryStore
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(limit, search)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if asJSON {
		return helpers.WriteJSON(out, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}
	helpers.RenderHistory(out, records)
	return nil
}
