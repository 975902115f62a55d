package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/hostwarden/internal/app"
	"github.com/doeshing/hostwarden/internal/infrastructure/cli/helpers"
)

// NewCertCommand creates the cert command with all subcommands
func NewCertCommand(container *app.Container) *cobra.Command {
	certCmd := &cobra.Command{
		Use:   "cert",
		Short: "Manage certificates in the OS trust store",
	}

	certCmd.AddCommand(
		newCertAddCommand(container),
		newCertRemoveCommand(container),
		newCertRemoveFingerprintCommand(container),
		newCertExistsCommand(container),
		newCertListCommand(container),
		newCertGenerateCommand(container),
		newCertManualCommand(container),
	)
	return certCmd
}

// newCertAddCommand creates the 'cert add' subcommand
func newCertAddCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <pem-file>",
		Short: "Trust a PEM certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := readCredential(cmd, container.TrustService.RequiresCredential())
			if err != nil {
				return err
			}
			if err := container.TrustService.Add(cmd.Context(), args[0], cred); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trusted %s\n", args[0])
			return nil
		},
	}
	addPasswordFlag(cmd)
	return cmd
}

// newCertRemoveCommand creates the 'cert remove' subcommand
func newCertRemoveCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name|sha1>",
		Short: "Remove the single certificate matching name",
		Long: "Remove resolves name to exactly one certificate: an exact name match wins, " +
			"otherwise a single partial match. Several candidates are reported and nothing is removed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := readCredential(cmd, container.TrustService.RequiresCredential())
			if err != nil {
				return err
			}
			cert, err := container.TrustService.Remove(cmd.Context(), args[0], cred)
			if err != nil {
				return err
			}
			name := cert.Name
			if name == "" {
				name = args[0]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s)\n", name, cert.SHA1)
			return nil
		},
	}
	addPasswordFlag(cmd)
	return cmd
}

// newCertRemoveFingerprintCommand creates the 'cert remove-fingerprint' subcommand
func newCertRemoveFingerprintCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-fingerprint <sha1>",
		Short: "Remove the certificate with the given SHA-1 fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := readCredential(cmd, container.TrustService.RequiresCredential())
			if err != nil {
				return err
			}
			if err := container.TrustService.RemoveByFingerprint(cmd.Context(), args[0], cred); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
	addPasswordFlag(cmd)
	return cmd
}

// newCertExistsCommand creates the 'cert exists' subcommand
func newCertExistsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <subject>",
		Short: "Report whether a certificate matching subject is trusted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printBool(cmd.OutOrStdout(), container.TrustService.Exists(cmd.Context(), args[0]))
			return nil
		},
	}
}

// newCertListCommand creates the 'cert list' subcommand
func newCertListCommand(container *app.Container) *cobra.Command {
	var asJSON, parsed bool
	cmd := &cobra.Command{
		Use:   "list [subject]",
		Short: "Show the trust store listing for subject",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := ""
			if len(args) == 1 {
				subject = args[0]
			}
			out := cmd.OutOrStdout()
			if !asJSON && !parsed {
				raw, err := container.TrustService.List(cmd.Context(), subject)
				if err != nil {
					return err
				}
				fmt.Fprint(out, raw)
				return nil
			}
			certs, err := container.TrustService.Find(cmd.Context(), subject)
			if err != nil {
				return err
			}
			if asJSON {
				return helpers.WriteJSON(out, certs)
			}
			if len(certs) == 0 {
				fmt.Fprintln(out, MsgNoCertificates)
				return nil
			}
			helpers.RenderCertificates(out, certs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, flagJSON, false, "Print parsed certificates as JSON")
	cmd.Flags().BoolVar(&parsed, "parsed", false, "Print one parsed certificate per line instead of the raw listing")
	return cmd
}

// newCertGenerateCommand creates the 'cert generate' subcommand
func newCertGenerateCommand(container *app.Container) *cobra.Command {
	var trustIt bool
	cmd := &cobra.Command{
		Use:   "generate <hostname>",
		Short: "Create a self-signed certificate for hostname",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := container.TrustService.Generate(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Certificate: %s\nPrivate key: %s\nPublic key:  %s\nSHA-1:       %s\n",
				bundle.CertPath, bundle.KeyPath, bundle.PublicPath, bundle.SHA1)
			if !trustIt {
				return nil
			}
			cred, err := readCredential(cmd, container.TrustService.RequiresCredential())
			if err != nil {
				return err
			}
			if err := container.TrustService.Add(cmd.Context(), bundle.CertPath, cred); err != nil {
				return err
			}
			fmt.Fprintln(out, "Trusted.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&trustIt, "trust", false, "Add the generated certificate to the trust store")
	addPasswordFlag(cmd)
	return cmd
}

// newCertManualCommand creates the 'cert manual-command' subcommand
func newCertManualCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "manual-command <hostname>",
		Short: "Print the command that trusts hostname's certificate by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := container.TrustService.ManualCommand(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(line))
			return nil
		},
	}
}
