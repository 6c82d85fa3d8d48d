// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokenstore

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	apperrors "legaltoolkit/authbridge/internal/errors"
)

// TokenFileName is the record file inside the data directory.
const TokenFileName = "auth_token.json"

// FileBackend keeps the record as a plaintext JSON file, typically
// <local-data-dir>/legal-toolkit/auth_token.json.
type FileBackend struct {
	fs  afero.Fs
	dir string
}

// NewFileBackend stores the record under dir on fs.
func NewFileBackend(fs afero.Fs, dir string) *FileBackend {
	return &FileBackend{fs: fs, dir: dir}
}

// Path returns the record file path.
func (b *FileBackend) Path() string {
	return filepath.Join(b.dir, TokenFileName)
}

func (b *FileBackend) Name() string { return "file" }

// Save writes the record through a temp file and rename, creating the
// directory with private permissions if it is missing.
func (b *FileBackend) Save(data []byte) error {
	if err := b.fs.MkdirAll(b.dir, 0o700); err != nil {
		return apperrors.Wrap(apperrors.Persistence, "failed to create data directory", err)
	}

	tmp := b.Path() + ".tmp"
	if err := afero.WriteFile(b.fs, tmp, data, 0o600); err != nil {
		return apperrors.Wrap(apperrors.Persistence, "failed to write token file", err)
	}
	if err := b.fs.Rename(tmp, b.Path()); err != nil {
		_ = b.fs.Remove(tmp)
		return apperrors.Wrap(apperrors.Persistence, "failed to write token file", err)
	}
	return nil
}

func (b *FileBackend) Load() ([]byte, error) {
	data, err := afero.ReadFile(b.fs, b.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.Persistence, "failed to read token file", err)
	}
	return data, nil
}

func (b *FileBackend) Clear() error {
	if err := b.fs.Remove(b.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(apperrors.Persistence, "failed to remove token file", err)
	}
	return nil
}

func (b *FileBackend) Exists() bool {
	ok, err := afero.Exists(b.fs, b.Path())
	return err == nil && ok
}
