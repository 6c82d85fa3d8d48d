// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package xdg resolves per-user directories for the Legal Toolkit desktop app.
// On Linux and the BSDs it follows the XDG Base Directory specification, falling
// back to the traditional locations when the XDG variables are unset. On macOS
// and Windows it uses the platform's local application data locations.
//
// The functions only resolve paths. Callers create directories through their
// own filesystem (see tokenstore.FileBackend) so that tests can run on an
// in-memory filesystem.
package xdg

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// goos is swapped in tests.
var goos = runtime.GOOS

// DataDir returns the local (non-roaming) data directory for app:
//
//	linux:   $XDG_DATA_HOME/<app>  or ~/.local/share/<app>
//	darwin:  ~/Library/Application Support/<app>
//	windows: %LOCALAPPDATA%\<app>
func DataDir(app string) (string, error) {
	base, err := dataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, app), nil
}

// ConfigDir returns the configuration directory for app.
// It falls back to ~/.config/<app> when XDG_CONFIG_HOME is unset on Linux.
func ConfigDir(app string) (string, error) {
	var base string
	switch goos {
	case "windows", "darwin":
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = dir
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, app), nil
}

// LogsDir returns the directory used for daily log files.
func LogsDir(app string) (string, error) {
	dir, err := ConfigDir(app)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

func dataHome() (string, error) {
	switch goos {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		return "", errors.New("%LOCALAPPDATA% is not defined")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}
