// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokenstore

import (
	"errors"

	"github.com/zalando/go-keyring"

	apperrors "legaltoolkit/authbridge/internal/errors"
)

// KeyringBackend keeps the record as the password of a single OS credential
// store entry addressed by a fixed service/account pair.
type KeyringBackend struct {
	service string
	account string
}

// NewKeyringBackend addresses the entry service/account.
func NewKeyringBackend(service, account string) *KeyringBackend {
	return &KeyringBackend{service: service, account: account}
}

func (b *KeyringBackend) Name() string { return "keyring" }

func (b *KeyringBackend) Save(data []byte) error {
	if err := keyring.Set(b.service, b.account, string(data)); err != nil {
		return apperrors.Wrap(apperrors.Persistence, "failed to save token to keyring", err)
	}
	return nil
}

func (b *KeyringBackend) Load() ([]byte, error) {
	secret, err := keyring.Get(b.service, b.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.Persistence, "failed to load token from keyring", err)
	}
	return []byte(secret), nil
}

func (b *KeyringBackend) Clear() error {
	if err := keyring.Delete(b.service, b.account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return apperrors.Wrap(apperrors.Persistence, "failed to clear token from keyring", err)
	}
	return nil
}

func (b *KeyringBackend) Exists() bool {
	_, err := keyring.Get(b.service, b.account)
	return err == nil
}
