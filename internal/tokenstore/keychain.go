// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokenstore

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	apperrors "legaltoolkit/authbridge/internal/errors"
)

// KeychainBackend keeps the record in a 99designs/keyring store, which picks
// the native credential facility of the platform (macOS Keychain, Windows
// Credential Manager, Secret Service, KWallet) or pass.
type KeychainBackend struct {
	mu   sync.RWMutex
	ring keyring.Keyring
	key  string
}

// NewKeychainBackend opens the platform keyring under namespace service and
// stores the record under key.
func NewKeychainBackend(service, key string) (*KeychainBackend, error) {
	ring, err := openRing(service)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Persistence, "failed to open keychain", err)
	}
	return NewKeychainBackendWithRing(ring, key), nil
}

// NewKeychainBackendWithRing wraps an already opened keyring.
func NewKeychainBackendWithRing(ring keyring.Keyring, key string) *KeychainBackend {
	return &KeychainBackend{ring: ring, key: key}
}

// openRing opens the OS keyring using native platform backends only.
// The encrypted-file backend is excluded; the file storage backend covers that case.
func openRing(service string) (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Try macOS Keychain first, then pass (password store) as fallback
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	}

	cfg := keyring.Config{
		ServiceName:     service,
		AllowedBackends: allowedBackends,
		PassPrefix:      service,
		// Hint prefixes where supported to minimize namespace collisions
		WinCredPrefix:            service,
		KeychainTrustApplication: true,
	}

	return keyring.Open(cfg)
}

func (b *KeychainBackend) Name() string { return "keychain" }

// Save stores the record. This method is thread-safe.
func (b *KeychainBackend) Save(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ring.Set(keyring.Item{Key: b.key, Data: data, Label: "Legal Toolkit session"}); err != nil {
		return apperrors.Wrap(apperrors.Persistence, "failed to save token to keychain", err)
	}
	return nil
}

// Load retrieves the record. This method is thread-safe.
func (b *KeychainBackend) Load() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	it, err := b.ring.Get(b.key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.Persistence, "failed to load token from keychain", err)
	}
	if len(it.Data) == 0 {
		return nil, ErrNotFound
	}
	return it.Data, nil
}

// Clear removes the record. This method is thread-safe.
func (b *KeychainBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ring.Remove(b.key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return apperrors.Wrap(apperrors.Persistence, "failed to clear token from keychain", err)
	}
	return nil
}

// Exists checks for the key via the metadata lookup, which does not read the secret.
func (b *KeychainBackend) Exists() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, err := b.ring.GetMetadata(b.key)
	if err == nil {
		return true
	}
	if errors.Is(err, keyring.ErrMetadataNeedsCredentials) || errors.Is(err, keyring.ErrMetadataNotSupported) {
		_, err = b.ring.Get(b.key)
		return err == nil
	}
	return false
}
