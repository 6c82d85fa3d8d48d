package cmd

import (
	"github.com/spf13/cobra"
)

// refreshCmd re-fetches the profile behind the stored token.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch the profile of the signed-in user",
	Long: `The refresh command fetches the current profile with the stored token.
Unlike validate it keeps the token when the server rejects it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		stop := startSpinner(cmd.ErrOrStderr(), "Refreshing profile")
		res, ae := a.commands.RefreshUserProfile(cmd.Context())
		stop()

		return report(cmd, res, ae, "refreshing the profile")
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
