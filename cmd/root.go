// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Legal Toolkit auth bridge.
// It implements subcommands for signing in, validating and refreshing the stored
// session, signing out, and invoking the desktop shell's IPC commands by name,
// using the Cobra CLI framework. Output is rendered with pterm, or as the IPC
// JSON payload when --json is given.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"legaltoolkit/authbridge/internal/backend"
	"legaltoolkit/authbridge/internal/bridge"
	"legaltoolkit/authbridge/internal/config"
	"legaltoolkit/authbridge/internal/logging"
	"legaltoolkit/authbridge/internal/session"
	"legaltoolkit/authbridge/internal/tokenstore"
	"legaltoolkit/authbridge/internal/xdg"
)

var (
	configFile  string
	jsonOutput  bool
	verbose     bool
	apiURL      string
	storageName string
	storageDir  string
)

// annotationNoSession marks commands that only need config and logging.
const annotationNoSession = "authbridge/no-session"

// errReported is returned by commands that already printed their failure.
var errReported = errors.New("reported")

type appKey struct{}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg      config.Config
	log      *logrus.Logger
	store    *session.Store
	commands *bridge.Commands
	closeLog func() error
}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "authbridge",
	Short: "Legal Toolkit authentication bridge",
	Long: `authbridge signs the Legal Toolkit desktop app in against the web portal API
and keeps the resulting session token in the OS keyring (or a local file), so a
signed-in session survives restarts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		current = a
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
		return nil
	},
}

// current is the app of the running invocation, released by closeApp.
var current *app

// closeApp closes the log file. It runs as a cobra finalizer, so it also
// runs when a command fails.
func closeApp() {
	if current == nil {
		return
	}
	if current.closeLog != nil {
		if err := current.closeLog(); err != nil {
			fmt.Fprintln(os.Stderr, "close log file:", err)
		}
	}
	current = nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	overrides := map[string]any{}
	if apiURL != "" {
		overrides[config.KeyAPIBaseURL] = apiURL
	}
	if storageName != "" {
		overrides[config.KeyStorageBackend] = storageName
	}
	if storageDir != "" {
		overrides[config.KeyStorageDir] = storageDir
	}
	if verbose {
		overrides[config.KeyLogLevel] = "debug"
	}

	cfg, err := config.Load(config.Options{ConfigFile: configFile, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: cmd.ErrOrStderr()}
	if cfg.Log.File {
		dir, err := xdg.LogsDir(config.AppName)
		if err != nil {
			return nil, err
		}
		logOpts.Dir = dir
	}
	log, closeLog, err := logging.Setup(logOpts)
	if err != nil {
		return nil, err
	}
	if verbose {
		pterm.EnableDebugMessages()
	}

	a := &app{cfg: cfg, log: log, closeLog: closeLog}
	if cmd.Annotations[annotationNoSession] != "" {
		return a, nil
	}

	store, err := tokenstore.Open(cfg.Storage, nil)
	if err != nil {
		return nil, err
	}
	api := backend.New(cfg.APIBaseURL,
		backend.WithTimeout(cfg.HTTP.Timeout),
		backend.WithUserAgent("authbridge/"+Version),
	)
	a.store = session.New(api, store,
		session.WithLogger(log),
		session.WithKeepTokenOnNetworkError(cfg.Session.KeepTokenOnNetworkError),
	)
	a.commands = bridge.New(a.store, log)

	log.WithFields(logrus.Fields{
		"api":     cfg.APIBaseURL,
		"storage": store.Name(),
	}).Debug("session ready")
	return a, nil
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, logging.PresentError("authbridge", err))
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnFinalize(closeApp)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default <config-dir>/legal-toolkit/authbridge.toml)")
	pf.BoolVar(&jsonOutput, "json", false, "print the IPC JSON payload instead of formatted output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	pf.StringVar(&apiURL, "api-url", "", "API base URL (overrides API_BASE_URL)")
	pf.StringVar(&storageName, "storage", "", "token storage backend: keyring, keychain or file")
	pf.StringVar(&storageDir, "storage-dir", "", "directory for the file storage backend")
}
