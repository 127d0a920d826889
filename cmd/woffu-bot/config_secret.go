package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/username/woffu-attendance-bot/internal/config"
	"github.com/username/woffu-attendance-bot/internal/secret"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out, err := renderConfig(cfg)
			if err != nil {
				return err
			}
			fmt.Print(out)

			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
			}
			return nil
		},
	})

	return cmd
}

func renderConfig(cfg *config.Config) (string, error) {
	out, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(out), nil
}

func secretCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the Woffu password in the OS keyring",
	}
	cmd.PersistentFlags().StringVar(&email, "email", "", "Account email (default: woffu.email from config)")

	resolveEmail := func() (string, error) {
		if email != "" {
			return email, nil
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return "", fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Woffu.Email == "" {
			return "", fmt.Errorf("%w: woffu.email (or --email)", config.ErrMissingSetting)
		}
		return cfg.Woffu.Email, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Store the password read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := resolveEmail()
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Password for %s: ", account)
			password, err := readPassword(cmd.InOrStdin())
			fmt.Fprintln(os.Stderr) // New line after password input
			if err != nil {
				return err
			}

			if err := secret.NewStore().SetPassword(account, password); err != nil {
				return err
			}

			fmt.Printf("✅ Password stored in keyring for %s\n", account)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := resolveEmail()
			if err != nil {
				return err
			}

			if err := secret.NewStore().DeletePassword(account); err != nil {
				return err
			}

			fmt.Printf("✅ Password removed from keyring for %s\n", account)
			return nil
		},
	})

	return cmd
}

// readPassword reads a password without echo when in is a terminal,
// otherwise it reads the first line (piped input).
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
