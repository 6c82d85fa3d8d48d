// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"legaltoolkit/authbridge/internal/bridge"
	"legaltoolkit/authbridge/internal/httperrors"
	"legaltoolkit/authbridge/internal/logging"
	"legaltoolkit/authbridge/internal/session"
)

var statusCheckServer bool

type statusReport struct {
	LoggedIn bool               `json:"logged_in"`
	Storage  string             `json:"storage"`
	Token    *session.TokenInfo `json:"token,omitempty"`
	API      string             `json:"api"`
	Server   string             `json:"server,omitempty"`
}

// statusCmd reports whether a token is stored, without contacting the
// server unless --check-server is given.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session token is stored",
	Long: `The status command reports whether a session token is stored and, for JWT
tokens, when it expires. It reads local storage only; pass --check-server to
also check that the API answers its health endpoint.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		rep := statusReport{
			LoggedIn: a.commands.CheckAuthStatus(),
			Storage:  a.store.Backend().Name(),
			API:      a.cfg.APIBaseURL,
		}
		if rep.LoggedIn {
			info, err := a.store.TokenInfo()
			if err != nil {
				a.log.WithError(err).Warn("stored token unreadable")
			} else if info.Stored {
				rep.Token = &info
			}
		}
		if statusCheckServer {
			rep.Server = checkServer(cmd.Context(), a.store, a.cfg.APIBaseURL)
		}

		if jsonOutput {
			return writeReply(cmd.OutOrStdout(), bridge.Reply{Result: rep})
		}
		renderStatus(rep)
		return nil
	},
}

func checkServer(ctx context.Context, s *session.Store, api string) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		return httperrors.Describe(err, "checking "+httperrors.ExtractHostFromURL(api))
	}
	return "reachable"
}

func renderStatus(rep statusReport) {
	if rep.LoggedIn {
		pterm.Success.Println("Signed in")
	} else {
		pterm.Info.Println("Not signed in. Run 'authbridge login' to get started.")
	}

	data := pterm.TableData{
		{"Storage", rep.Storage},
		{"API", rep.API},
	}
	if t := rep.Token; t != nil {
		if t.StoredAt != nil {
			data = append(data, []string{"Stored", t.StoredAt.Local().Format(time.DateTime)})
		}
		if t.ExpiresAt != nil {
			exp := t.ExpiresAt.Local().Format(time.DateTime)
			if t.Expired(time.Now()) {
				exp += " (expired)"
			}
			data = append(data, []string{"Expires", exp})
		}
	}
	if rep.Server != "" {
		data = append(data, []string{"Server", logging.Mask(rep.Server)})
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusCheckServer, "check-server", false, "also check that the API is reachable")
}
