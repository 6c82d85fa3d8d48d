// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"legaltoolkit/authbridge/internal/bridge"
)

// invokeCmd runs one IPC command by name, the way the desktop shell does.
var invokeCmd = &cobra.Command{
	Use:   "invoke <command> [json-args|-]",
	Short: "Run a desktop shell command by name and print its JSON reply",
	Long: fmt.Sprintf(`The invoke command runs one of the commands the desktop shell calls and
prints the reply as JSON: {"result": ...} on success, {"error": {...}} on failure.

Arguments are a JSON object given inline or read from stdin with "-", e.g.
  echo '{"credentials":{"email":"a@b.com","password":"..."}}' | authbridge invoke login_user -

Commands: %s`, strings.Join(bridge.Names(), ", ")),
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: bridge.Names(),

	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		if len(args) == 2 {
			if args[1] == "-" {
				b, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 1<<20))
				if err != nil {
					return fmt.Errorf("read arguments from stdin: %w", err)
				}
				raw = b
			} else {
				raw = []byte(args[1])
			}
		}

		reply := appFrom(cmd).commands.InvokeReply(cmd.Context(), args[0], raw)
		if err := writeReply(cmd.OutOrStdout(), reply); err != nil {
			return err
		}
		if reply.Error != nil {
			return errReported
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invokeCmd)
}
