package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jdelaire/linedraw/internal/keychain"
)

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage channel credentials in the system keychain",
	}

	accountArg := func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return err
		}
		if !keychain.Valid(args[0]) {
			return fmt.Errorf("unknown secret %q (valid: %s)", args[0], strings.Join(keychain.Accounts(), ", "))
		}
		return nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "set <name>",
		Short:     "Store a secret, read from the terminal without echo",
		Args:      accountArg,
		ValidArgs: keychain.Accounts(),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}
			if err := keychain.Set(args[0], value); err != nil {
				return fmt.Errorf("store %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s in keychain.\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "get <name>",
		Short:     "Show a stored secret, masked",
		Args:      accountArg,
		ValidArgs: keychain.Accounts(),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := keychain.Get(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), mask(value))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "delete <name>",
		Short:     "Remove a stored secret",
		Args:      accountArg,
		ValidArgs: keychain.Accounts(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := keychain.Delete(args[0]); err != nil {
				return fmt.Errorf("delete %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			return nil
		},
	})

	return cmd
}

// readSecret reads one value. On a terminal the input is not echoed;
// otherwise the first line of stdin is used.
func readSecret(in io.Reader, prompt io.Writer, name string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(prompt, "Enter %s: ", name)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("empty %s", name)
	}
	return value, nil
}

// mask keeps the last four characters of a secret.
func mask(s string) string {
	const visible = 4
	if len(s) <= visible {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-visible) + s[len(s)-visible:]
}
