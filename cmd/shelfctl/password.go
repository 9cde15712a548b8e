package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newResetPasswordCmd(open opener) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account",
		Long: "Prompts for the new password without echoing it. When stdin is not a\n" +
			"terminal the password is read from the first line of input instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("New password for %s: ", email))
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if password == "" {
				return errors.New("password cannot be empty")
			}

			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.store.Close()

			if err := a.accounts.ResetPassword(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password reset for %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the account to update")
	cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword reads a password with masking when in is a terminal, and a
// plain line otherwise.
func readPassword(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
