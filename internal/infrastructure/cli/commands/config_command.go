package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/hostwarden/internal/app"
	configapp "github.com/doeshing/hostwarden/internal/application/config"
	"github.com/doeshing/hostwarden/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/hostwarden/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect hostwarden configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(container),
		newConfigPathCommand(container),
		newConfigGetCommand(container),
		newConfigSetCommand(container),
		newConfigValidateCommand(container),
		newConfigDiffCommand(container),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := helpers.GetConfigLoader(container)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.Path())
			return nil
		},
	}
}

// newConfigGetCommand creates the 'config get' subcommand
func newConfigGetCommand(container *app.Container) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a specific configuration value",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return errors.New(ErrKeyRequired)
			}
			return getConfigurationValue(cmd.Context(), cmd.OutOrStdout(), container, key)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Key path (e.g., hosts.backup_dir)")
	return cmd
}

// newConfigSetCommand creates the 'config set' subcommand
func newConfigSetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (value accepts YAML syntax)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := setConfigurationValue(container, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if backup != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Previous configuration saved to %s\n", backup)
			}
			return nil
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := configapp.Validate(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show how the configuration file differs from the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.OutOrStdout(), container)
		},
	}
}

// showConfiguration prints the effective configuration as YAML
func showConfiguration(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// getConfigurationValue retrieves a specific configuration value by key path
func getConfigurationValue(ctx context.Context, out io.Writer, container *app.Container, keyPath string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfgMap, err := helpers.ConfigToMap(cfg)
	if err != nil {
		return err
	}

	value, found := helpers.TraverseNestedMap(cfgMap, strings.Split(keyPath, "."))
	if !found {
		return fmt.Errorf("key %s not found in configuration", keyPath)
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// setConfigurationValue updates a value in the file form of the
// configuration, so environment overrides and platform defaults are not
// persisted.
func setConfigurationValue(container *app.Container, keyPath, value string) (string, error) {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return "", err
	}
	cfg, err := loader.LoadFile()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}

	cfgMap, err := helpers.ConfigToMap(cfg)
	if err != nil {
		return "", err
	}
	if !helpers.SetNestedMapValue(cfgMap, strings.Split(keyPath, "."), helpers.ParseYAMLValue(value)) {
		return "", fmt.Errorf("unknown configuration key %s", keyPath)
	}

	updated, err := helpers.MapToConfig(cfgMap)
	if err != nil {
		return "", err
	}
	return helpers.SaveConfigWithValidation(container, updated)
}

// showConfigurationDiff shows the difference between the file and the
// embedded defaults
func showConfigurationDiff(out io.Writer, container *app.Container) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}
	current, err := loader.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	diff := cmp.Diff(configinfra.DefaultConfig(), current)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}
