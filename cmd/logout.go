// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

// logoutCmd removes the stored session token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	Long: `The logout command deletes the session token from the configured storage
backend. It does not contact the server. Logging out when no token is stored
succeeds.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		res, ae := appFrom(cmd).commands.LogoutUser()
		return report(cmd, res, ae, "signing out")
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
