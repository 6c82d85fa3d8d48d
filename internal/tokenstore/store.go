// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package tokenstore persists the session token record.
//
// Exactly one Backend is active per process. All backends store the same
// JSON record, {"access_token": "...", "stored_at": "..."}, and share the
// contract exercised by the package tests: Save overwrites, Load reports
// ErrNotFound when nothing is stored, Clear is idempotent, Exists never parses.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"legaltoolkit/authbridge/internal/backend"
	"legaltoolkit/authbridge/internal/config"
	apperrors "legaltoolkit/authbridge/internal/errors"
)

// ErrNotFound is returned by Load when the backend holds no record.
var ErrNotFound = errors.New("no stored token")

// Backend stores one opaque record.
type Backend interface {
	// Save replaces the stored record.
	Save(data []byte) error
	// Load returns the stored record or ErrNotFound.
	Load() ([]byte, error)
	// Clear removes the record. Removing a missing record is not an error.
	Clear() error
	// Exists reports whether a record is present without reading it.
	Exists() bool
	// Name identifies the backend in logs.
	Name() string
}

// Record is the persisted shape.
type Record struct {
	AccessToken string    `json:"access_token"`
	StoredAt    time.Time `json:"stored_at"`
}

// UnmarshalJSON reads stored_at best effort: RFC 3339, the API's zone-less
// layouts or unix seconds. Anything else leaves StoredAt zero so the token
// stays loadable.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		AccessToken string          `json:"access_token"`
		StoredAt    json.RawMessage `json:"stored_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{AccessToken: raw.AccessToken, StoredAt: parseStoredAt(raw.StoredAt)}
	return nil
}

func parseStoredAt(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		ts, err := backend.ParseTimestamp(s)
		if err != nil {
			return time.Time{}
		}
		return ts.Time
	}
	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil && secs > 0 {
		whole := int64(secs)
		return time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC()
	}
	return time.Time{}
}

// Encode serialises a record for token captured at now.
func Encode(token string, now time.Time) ([]byte, error) {
	return json.Marshal(Record{AccessToken: token, StoredAt: now.UTC()})
}

// Decode parses a stored record.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, apperrors.Wrap(apperrors.Persistence, "failed to parse stored token", err)
	}
	return r, nil
}

// Open builds the backend selected by cfg. fs is only used by the file backend.
func Open(cfg config.StorageConfig, fs afero.Fs) (Backend, error) {
	switch cfg.Backend {
	case config.BackendKeyring:
		return NewKeyringBackend(cfg.Service, cfg.Account), nil
	case config.BackendKeychain:
		b, err := NewKeychainBackend(cfg.Service, cfg.Account)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.BackendFile:
		if fs == nil {
			fs = afero.NewOsFs()
		}
		return NewFileBackend(fs, cfg.Dir), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
