package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var password string

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and store credentials locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword()
			if err != nil {
				return err
			}

			result := appCtx.Session.Login(cmd.Context(), args[0], pw)
			if !result.Success {
				toastErr(errors.New(result.Error))
				return errors.New(result.Error)
			}
			toastOK("Signed in as %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")
	return cmd
}

func signupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup [email]",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword()
			if err != nil {
				return err
			}

			result := appCtx.Session.Signup(cmd.Context(), args[0], pw)
			if !result.Success {
				toastErr(errors.New(result.Error))
				return errors.New(result.Error)
			}
			toastOK("Account created for %s, check your inbox to verify the address", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx.Session.Logout(cmd.Context())
			toastOK("Signed out")
			return nil
		},
	}
}

func resolvePassword() (string, error) {
	if password != "" {
		return password, nil
	}
	if v := os.Getenv("BOLGENIE_PASSWORD"); v != "" {
		return v, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	pw := strings.TrimSpace(line)
	if pw == "" {
		return "", errors.New("password must not be empty")
	}
	return pw, nil
}
