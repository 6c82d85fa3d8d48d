// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the lifecycle of the single cached session token:
// acquire it by login, persist it, validate it against the server, refresh
// the profile behind it and clear it on logout.
//
// A Store talks to the API through backend.API and keeps the token in one
// tokenstore.Backend. Expected states (rejected credentials, no stored token,
// token rejected at validation) are reported as AuthResult{Success: false};
// everything else is a typed error from internal/errors.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"legaltoolkit/authbridge/internal/backend"
	apperrors "legaltoolkit/authbridge/internal/errors"
	"legaltoolkit/authbridge/internal/logging"
	"legaltoolkit/authbridge/internal/tokenstore"
)

// Store is the session token owner. It is safe for concurrent use: backend
// access is serialised, network calls are not.
type Store struct {
	api   backend.API
	store tokenstore.Backend
	log   logrus.FieldLogger
	now   func() time.Time

	keepTokenOnNetworkError bool

	mu sync.Mutex
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock sets the clock used for stored_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKeepTokenOnNetworkError makes ValidateStoredToken keep the stored token
// and return the error when the server could not be reached.
func WithKeepTokenOnNetworkError(keep bool) Option {
	return func(s *Store) { s.keepTokenOnNetworkError = keep }
}

// New builds a Store over api and the persistence backend b.
func New(api backend.API, b tokenstore.Backend, opts ...Option) *Store {
	s := &Store{
		api:   api,
		store: b,
		log:   logging.Discard(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "session")
	return s
}

// Backend returns the persistence backend in use.
func (s *Store) Backend() tokenstore.Backend { return s.store }

// Login exchanges credentials for a token, persists it and fetches the
// profile with it. Credentials rejected by the server produce a failed
// result, not an error. If the profile fetch fails after the token was
// saved, the token stays stored and the error is returned.
func (s *Store) Login(ctx context.Context, email, password string) (AuthResult, error) {
	tok, err := s.api.Login(ctx, email, password)
	if err != nil {
		if detail, ok := credentialsRejected(err); ok {
			s.log.WithField("status", apperrors.StatusOf(err)).Debug("login rejected")
			return failed(loginFailedPrefix + detail), nil
		}
		return AuthResult{}, err
	}

	if err := s.SaveToken(tok.AccessToken); err != nil {
		return AuthResult{}, err
	}

	profile, err := s.api.GetProfile(ctx, tok.AccessToken)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.WithField("user_id", profile.UserID()).Info("logged in")
	return loggedIn(MsgLoginSuccessful, tok.AccessToken, profile), nil
}

// credentialsRejected reports whether err is the server refusing the
// credentials, and returns the server's detail text.
func credentialsRejected(err error) (string, bool) {
	var e *apperrors.E
	if !errors.As(err, &e) || e.Kind != apperrors.Server {
		return "", false
	}
	switch e.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return e.Message, true
	}
	return "", false
}

// GetUserProfile fetches the profile owned by token.
func (s *Store) GetUserProfile(ctx context.Context, token string) (backend.UserProfile, error) {
	return s.api.GetProfile(ctx, token)
}

// ValidateStoredToken checks the stored token against the server. A token
// the server does not accept is cleared.
func (s *Store) ValidateStoredToken(ctx context.Context) (AuthResult, error) {
	token, ok, err := s.LoadToken()
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return failed(MsgNoStoredToken), nil
	}

	profile, err := s.api.GetProfile(ctx, token)
	if err != nil {
		if s.keepTokenOnNetworkError && apperrors.Is(err, apperrors.Network) {
			return AuthResult{}, err
		}
		s.log.WithError(err).Info("stored token rejected, clearing")
		if cerr := s.ClearToken(); cerr != nil {
			return AuthResult{}, cerr
		}
		return failed(MsgTokenInvalid), nil
	}

	return loggedIn(MsgTokenValid, token, profile), nil
}

// RefreshProfile re-fetches the profile behind the stored token. Unlike
// ValidateStoredToken it never clears the token.
func (s *Store) RefreshProfile(ctx context.Context) (AuthResult, error) {
	token, ok, err := s.LoadToken()
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, apperrors.New(apperrors.NoToken, "No authentication token found")
	}

	profile, err := s.api.GetProfile(ctx, token)
	if err != nil {
		return AuthResult{}, err
	}
	return loggedIn(MsgProfileRefreshed, token, profile), nil
}

// Logout clears the stored token. Logging out without a token succeeds.
func (s *Store) Logout() (AuthResult, error) {
	if err := s.ClearToken(); err != nil {
		return AuthResult{}, err
	}
	s.log.Info("logged out")
	return AuthResult{Success: true, Message: MsgLogoutSuccessful}, nil
}

// SaveToken stores token with the current time, replacing any previous record.
func (s *Store) SaveToken(token string) error {
	data, err := tokenstore.Encode(token, s.now())
	if err != nil {
		return apperrors.Wrap(apperrors.Persistence, "failed to encode token", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(data)
}

// LoadToken returns the stored token. ok is false when nothing is stored or
// the record has no access_token.
func (s *Store) LoadToken() (token string, ok bool, err error) {
	rec, found, err := s.loadRecord()
	if err != nil || !found {
		return "", false, err
	}
	if rec.AccessToken == "" {
		return "", false, nil
	}
	return rec.AccessToken, true, nil
}

func (s *Store) loadRecord() (tokenstore.Record, bool, error) {
	s.mu.Lock()
	data, err := s.store.Load()
	s.mu.Unlock()

	if errors.Is(err, tokenstore.ErrNotFound) {
		return tokenstore.Record{}, false, nil
	}
	if err != nil {
		return tokenstore.Record{}, false, err
	}
	rec, err := tokenstore.Decode(data)
	if err != nil {
		return tokenstore.Record{}, false, err
	}
	return rec, true, nil
}

// ClearToken removes the stored token. Clearing an empty store succeeds.
func (s *Store) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear()
}

// HasStoredToken reports whether a record exists. It does not parse the
// record or contact the server; backend errors read as false.
func (s *Store) HasStoredToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Exists()
}

// TokenInfo describes the stored record. Claims are parsed without
// verification.
func (s *Store) TokenInfo() (TokenInfo, error) {
	rec, found, err := s.loadRecord()
	if err != nil {
		return TokenInfo{}, err
	}
	if !found || rec.AccessToken == "" {
		return TokenInfo{}, nil
	}

	info := TokenInfo{Stored: true}
	if !rec.StoredAt.IsZero() {
		at := rec.StoredAt
		info.StoredAt = &at
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rec.AccessToken, &claims); err != nil {
		// Opaque token, nothing more to show.
		return info, nil
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time.UTC()
		info.ExpiresAt = &exp
	}
	info.Subject = claims.Subject
	return info, nil
}

// Ping checks that the API answers its health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.api.Health(ctx)
}
