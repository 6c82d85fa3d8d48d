// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads authbridge settings with viper.
//
// Values come from, highest precedence first: explicit overrides (CLI flags),
// the process environment, a dotenv file in the working directory, the TOML
// config file, and built-in defaults. Secrets never live here; the session
// token goes to the storage backend selected by Storage.Backend.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"legaltoolkit/authbridge/internal/xdg"
)

// AppName names the per-user directories and the keyring namespace.
const AppName = "legal-toolkit"

// Storage backend names.
const (
	BackendKeyring  = "keyring"
	BackendKeychain = "keychain"
	BackendFile     = "file"
)

// Keys understood by Load.
const (
	KeyAPIBaseURL              = "api_base_url"
	KeyStorageBackend          = "storage.backend"
	KeyStorageService          = "storage.service"
	KeyStorageAccount          = "storage.account"
	KeyStorageDir              = "storage.dir"
	KeyHTTPTimeout             = "http.timeout"
	KeyKeepTokenOnNetworkError = "session.keep_token_on_network_error"
	KeyLogLevel                = "log.level"
	KeyLogJSON                 = "log.json"
	KeyLogFile                 = "log.file"
)

// envNames maps every key to the environment variable that overrides it.
// The same names are recognised in the dotenv file.
var envNames = map[string]string{
	KeyAPIBaseURL:              "API_BASE_URL",
	KeyStorageBackend:          "AUTHBRIDGE_STORAGE_BACKEND",
	KeyStorageService:          "AUTHBRIDGE_STORAGE_SERVICE",
	KeyStorageAccount:          "AUTHBRIDGE_STORAGE_ACCOUNT",
	KeyStorageDir:              "AUTHBRIDGE_STORAGE_DIR",
	KeyHTTPTimeout:             "AUTHBRIDGE_HTTP_TIMEOUT",
	KeyKeepTokenOnNetworkError: "AUTHBRIDGE_SESSION_KEEP_TOKEN_ON_NETWORK_ERROR",
	KeyLogLevel:                "AUTHBRIDGE_LOG_LEVEL",
	KeyLogJSON:                 "AUTHBRIDGE_LOG_JSON",
	KeyLogFile:                 "AUTHBRIDGE_LOG_FILE",
}

// Config holds the resolved settings.
type Config struct {
	APIBaseURL string
	Storage    StorageConfig
	HTTP       HTTPConfig
	Session    SessionConfig
	Log        LogConfig
}

// StorageConfig selects and addresses the token backend.
type StorageConfig struct {
	Backend string
	Service string
	Account string
	Dir     string
}

// HTTPConfig configures the API client.
type HTTPConfig struct {
	Timeout time.Duration
}

// SessionConfig tunes session validation.
type SessionConfig struct {
	// KeepTokenOnNetworkError keeps the stored token when validation fails
	// because the server could not be reached. Server rejections always clear it.
	KeepTokenOnNetworkError bool
}

// LogConfig configures logrus.
type LogConfig struct {
	Level string
	JSON  bool
	File  bool
}

// Options control where Load looks.
type Options struct {
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// ConfigFile is an explicit config path; when empty the default
	// <config-dir>/legal-toolkit/authbridge.toml is read if it exists.
	ConfigFile string
	// EnvFile defaults to ".env" in the working directory. Missing is fine.
	EnvFile string
	// Overrides are applied last, keyed like the Key* constants.
	Overrides map[string]any
}

// Load resolves the configuration.
func Load(opts Options) (Config, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, err
		}
	}

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return Config{}, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := applyDotenv(v, fs, envFile); err != nil {
		return Config{}, err
	}

	for key, val := range opts.Overrides {
		v.Set(key, val)
	}

	c := Config{
		APIBaseURL: strings.TrimRight(v.GetString(KeyAPIBaseURL), "/"),
		Storage: StorageConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageBackend))),
			Service: v.GetString(KeyStorageService),
			Account: v.GetString(KeyStorageAccount),
			Dir:     v.GetString(KeyStorageDir),
		},
		HTTP:    HTTPConfig{Timeout: v.GetDuration(KeyHTTPTimeout)},
		Session: SessionConfig{KeepTokenOnNetworkError: v.GetBool(KeyKeepTokenOnNetworkError)},
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
			JSON:  v.GetBool(KeyLogJSON),
			File:  v.GetBool(KeyLogFile),
		},
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIBaseURL, "http://localhost:8000")
	v.SetDefault(KeyStorageBackend, BackendKeyring)
	v.SetDefault(KeyStorageService, AppName)
	v.SetDefault(KeyStorageAccount, "auth-token")
	if dir, err := xdg.DataDir(AppName); err == nil {
		v.SetDefault(KeyStorageDir, dir)
	}
	v.SetDefault(KeyHTTPTimeout, 10*time.Second)
	v.SetDefault(KeyKeepTokenOnNetworkError, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyLogFile, false)
}

func readConfigFile(v *viper.Viper, explicit string) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", explicit, err)
		}
		return nil
	}

	dir, err := xdg.ConfigDir(AppName)
	if err != nil {
		return nil
	}
	v.SetConfigName("authbridge")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// applyDotenv layers dotenv values between the environment and the config
// file: a value is taken only when the real environment does not set it.
func applyDotenv(v *viper.Viper, fs afero.Fs, path string) error {
	exists, err := afero.Exists(fs, path)
	if err != nil || !exists {
		return nil
	}

	ev := viper.New()
	ev.SetFs(fs)
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	for key, env := range envNames {
		if os.Getenv(env) != "" {
			continue
		}
		name := strings.ToLower(env)
		if ev.IsSet(name) {
			v.Set(key, ev.Get(name))
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid %s %q: want an absolute http(s) URL", KeyAPIBaseURL, c.APIBaseURL)
	}

	backends := []string{BackendKeyring, BackendKeychain, BackendFile}
	if !slices.Contains(backends, c.Storage.Backend) {
		return fmt.Errorf("invalid %s %q: want one of %s", KeyStorageBackend, c.Storage.Backend, strings.Join(backends, ", "))
	}
	if c.Storage.Backend == BackendFile && c.Storage.Dir == "" {
		return fmt.Errorf("%s is required for the file backend", KeyStorageDir)
	}
	if c.Storage.Backend != BackendFile && (c.Storage.Service == "" || c.Storage.Account == "") {
		return fmt.Errorf("%s and %s are required for the %s backend", KeyStorageService, KeyStorageAccount, c.Storage.Backend)
	}

	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("invalid %s %s: must not be negative", KeyHTTPTimeout, c.HTTP.Timeout)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	return nil
}
