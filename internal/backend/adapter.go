// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the
// Legal Toolkit API. It defines the contract the session layer depends on (password
// login, profile lookup, health) and an HTTP implementation of it.
package backend

import "context"

// API defines backend operations the session layer depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// Login exchanges credentials for an access token. A non-2xx reply is
	// returned as a server_error carrying the status code and the server's
	// detail text.
	Login(ctx context.Context, email, password string) (TokenResponse, error)
	// GetProfile returns the profile owned by accessToken. Any non-2xx reply is
	// a server_error with a generic message; the server detail is dropped.
	GetProfile(ctx context.Context, accessToken string) (UserProfile, error)
	// Health reports whether the API answers its health check.
	Health(ctx context.Context) error
}
