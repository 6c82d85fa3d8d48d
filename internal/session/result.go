// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"time"

	"legaltoolkit/authbridge/internal/backend"
)

// Result messages handed to the shell.
const (
	MsgLoginSuccessful  = "Login successful"
	MsgTokenValid       = "Token valid"
	MsgTokenInvalid     = "Token expired or invalid"
	MsgNoStoredToken    = "No stored token found"
	MsgProfileRefreshed = "Profile refreshed"
	MsgLogoutSuccessful = "Logout successful"
	loginFailedPrefix   = "Login failed: "
)

// Credentials are supplied per login call and never stored.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the envelope returned by every session operation that talks
// to the shell. A value is built once per call and not modified afterwards.
type AuthResult struct {
	Success     bool                 `json:"success"`
	UserID      string               `json:"user_id,omitempty"`
	Message     string               `json:"message"`
	Token       string               `json:"token,omitempty"`
	UserProfile *backend.UserProfile `json:"user_profile,omitempty"`
}

func failed(msg string) AuthResult {
	return AuthResult{Success: false, Message: msg}
}

func loggedIn(msg, token string, profile backend.UserProfile) AuthResult {
	return AuthResult{
		Success:     true,
		UserID:      profile.UserID(),
		Message:     msg,
		Token:       token,
		UserProfile: &profile,
	}
}

// TokenInfo describes the stored record without contacting the server.
// ExpiresAt and Subject are read from the token claims when the token is a
// JWT; the signature is not checked, so they are for display only.
type TokenInfo struct {
	Stored    bool       `json:"stored"`
	StoredAt  *time.Time `json:"stored_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Subject   string     `json:"subject,omitempty"`
}

// Expired reports whether the claims say the token has expired at now.
func (i TokenInfo) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}
