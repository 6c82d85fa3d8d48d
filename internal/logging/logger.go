// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options configures Setup.
type Options struct {
	Level string
	JSON  bool
	// Dir, when set, sends output to <Dir>/<yyyy-mm-dd>.log instead of Output.
	Dir string
	// Output defaults to os.Stderr.
	Output io.Writer
	// Fs is used to create the log directory and file. Defaults to the OS filesystem.
	Fs afero.Fs
}

// Setup configures the standard logrus logger and returns it.
// The returned closer releases the log file, if one was opened.
func Setup(opts Options) (*logrus.Logger, func() error, error) {
	l := logrus.StandardLogger()
	closer := func() error { return nil }

	lvl, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: opts.Dir != ""})
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	if opts.Dir != "" {
		fs := opts.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		if err := fs.MkdirAll(opts.Dir, 0o700); err != nil {
			return nil, closer, fmt.Errorf("create log dir: %w", err)
		}
		path := filepath.Join(opts.Dir, time.Now().Format("2006-01-02")+".log")
		f, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}
	l.SetOutput(out)

	return l, closer, nil
}

// Discard returns a logger that drops everything. Handy for tests and for
// library callers that do not want auth noise.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
