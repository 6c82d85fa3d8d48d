// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "legaltoolkit/authbridge/internal/errors"
)

// whoamiCmd prints the account behind the stored session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	Long: `The whoami command fetches the profile of the signed-in user and prints
the account email. The stored token is kept even if the server rejects it; use
validate to clear a stale session.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		res, ae := appFrom(cmd).commands.RefreshUserProfile(cmd.Context())
		if ae != nil && ae.ErrorType == apperrors.NoTokenFound && !jsonOutput {
			fmt.Fprintln(cmd.OutOrStdout(), "🔒 You're not logged in yet!")
			fmt.Fprintln(cmd.OutOrStdout(), "   Run 'authbridge login' to get started.")
			return nil
		}
		if ae != nil || jsonOutput {
			return report(cmd, res, ae, "looking up the account")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "👤 Current user: %s\n", res.UserProfile.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
