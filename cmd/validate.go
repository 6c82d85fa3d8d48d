package cmd

import (
	"github.com/spf13/cobra"
)

// validateCmd checks the stored token with the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the stored session with the server",
	Long: `The validate command sends the stored token to the server. If the server
accepts it, the current profile is shown. If not, the token is removed and you
need to log in again.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		stop := startSpinner(cmd.ErrOrStderr(), "Validating session")
		res, ae := a.commands.ValidateToken(cmd.Context())
		stop()

		return report(cmd, res, ae, "validating the session")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
