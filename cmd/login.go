// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"legaltoolkit/authbridge/internal/session"
)

var (
	loginEmail         string
	loginPasswordStdin bool
)

// loginCmd signs in with email and password and stores the session token.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with email and password",
	Long: `The login command exchanges your Legal Toolkit email and password for a session
token and stores it in the configured storage backend.

When stdin is a terminal, missing values are prompted for and the password is
not echoed. In scripts pass --email and pipe the password with --password-stdin.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		creds, err := readCredentials(cmd.InOrStdin(), loginEmail, loginPasswordStdin)
		if err != nil {
			return err
		}

		stop := startSpinner(cmd.ErrOrStderr(), "Signing in")
		res, ae := a.commands.LoginUser(cmd.Context(), creds)
		stop()

		return report(cmd, res, ae, "signing in")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "read the password from stdin")
}

// readCredentials collects the email and password from flags, stdin or
// interactive prompts.
func readCredentials(in io.Reader, email string, passwordStdin bool) (session.Credentials, error) {
	interactive := isTerminal(in)
	creds := session.Credentials{Email: strings.TrimSpace(email)}

	if creds.Email == "" {
		if !interactive {
			return creds, errors.New("--email is required when stdin is not a terminal")
		}
		if err := survey.AskOne(&survey.Input{Message: "Email:"}, &creds.Email, survey.WithValidator(survey.Required)); err != nil {
			return creds, err
		}
		creds.Email = strings.TrimSpace(creds.Email)
	}

	switch {
	case passwordStdin:
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return creds, fmt.Errorf("read password from stdin: %w", err)
		}
		creds.Password = strings.TrimRight(line, "\r\n")
	case interactive:
		if err := survey.AskOne(&survey.Password{Message: "Password:"}, &creds.Password, survey.WithValidator(survey.Required)); err != nil {
			return creds, err
		}
	default:
		return creds, errors.New("--password-stdin is required when stdin is not a terminal")
	}

	if creds.Password == "" {
		return creds, errors.New("password must not be empty")
	}
	return creds, nil
}
