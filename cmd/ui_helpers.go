// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"legaltoolkit/authbridge/internal/backend"
	"legaltoolkit/authbridge/internal/bridge"
	apperrors "legaltoolkit/authbridge/internal/errors"
	"legaltoolkit/authbridge/internal/httperrors"
	"legaltoolkit/authbridge/internal/session"
)

// startSpinner shows a spinner on w while a network call is in flight and
// returns the function that removes it. Nothing is drawn when w is not a
// terminal or JSON output was requested.
func startSpinner(w io.Writer, text string) func() {
	if jsonOutput || !isTerminal(w) {
		return func() {}
	}
	sp, err := pterm.DefaultSpinner.
		WithWriter(w).
		WithRemoveWhenDone(true).
		WithDelay(120 * time.Millisecond).
		Start(text)
	if err != nil {
		return func() {}
	}
	return func() { _ = sp.Stop() }
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeReply prints reply as indented JSON.
func writeReply(w io.Writer, reply bridge.Reply) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reply)
}

// report renders the outcome of a session command. A failed result or an
// error both make the command exit non-zero.
func report(cmd *cobra.Command, res session.AuthResult, ae *bridge.AuthError, action string) error {
	if jsonOutput {
		reply := bridge.Reply{Error: ae}
		if ae == nil {
			reply.Result = res
		}
		if err := writeReply(cmd.OutOrStdout(), reply); err != nil {
			return err
		}
		if ae != nil || !res.Success {
			return errReported
		}
		return nil
	}

	if ae != nil {
		presentAuthError(ae, action)
		return errReported
	}
	if !res.Success {
		pterm.Warning.Println(res.Message)
		return errReported
	}

	pterm.Success.Println(res.Message)
	if res.UserProfile != nil {
		renderProfile(*res.UserProfile)
	}
	return nil
}

// presentAuthError prints the user sentence and, for transport and server
// failures, what went wrong on the wire.
func presentAuthError(ae *bridge.AuthError, action string) {
	msg := ae.UserMessage
	if msg == "" {
		msg = bridge.UserMessageFor(ae.ErrorType)
	}
	pterm.Error.Println(msg)
	cause := ae.Unwrap()
	switch apperrors.KindOf(cause) {
	case apperrors.Network, apperrors.Server:
		httperrors.Present(cause, action)
	default:
		pterm.Debug.Println(ae.Message)
	}
}

func renderProfile(p backend.UserProfile) {
	data := pterm.TableData{
		{"User ID", p.UserID()},
		{"Email", p.Email},
		{"Name", p.FullName},
		{"Active", yesNo(p.IsActive)},
	}
	if !p.CreatedAt.IsZero() {
		data = append(data, []string{"Member since", p.CreatedAt.Format("2006-01-02")})
	}
	if s := p.Subscription; s != nil {
		data = append(data, []string{"Plan", s.PlanType + " (" + s.Status + ")"})
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
