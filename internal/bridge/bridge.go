// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge exposes the session operations as the named commands the
// desktop shell invokes. Each command is a thin pass-through to the session
// store that turns a failure into an *AuthError with a machine code, the
// masked debug detail and a fixed sentence for the user.
//
// Commands are reachable directly (LoginUser, ValidateToken, ...) or by IPC
// name through Invoke, which takes the shell's JSON argument object.
package bridge

import (
	"context"

	"github.com/sirupsen/logrus"

	apperrors "legaltoolkit/authbridge/internal/errors"
	"legaltoolkit/authbridge/internal/logging"
	"legaltoolkit/authbridge/internal/session"
)

// IPC command names.
const (
	CmdLoginUser          = "login_user"
	CmdValidateToken      = "validate_token"
	CmdLogoutUser         = "logout_user"
	CmdCheckAuthStatus    = "check_auth_status"
	CmdRefreshUserProfile = "refresh_user_profile"
)

// Session is the part of session.Store the commands use.
type Session interface {
	Login(ctx context.Context, email, password string) (session.AuthResult, error)
	ValidateStoredToken(ctx context.Context) (session.AuthResult, error)
	RefreshProfile(ctx context.Context) (session.AuthResult, error)
	Logout() (session.AuthResult, error)
	HasStoredToken() bool
}

// Commands holds the session store the command adapters act on.
type Commands struct {
	sess Session
	log  logrus.FieldLogger
}

// New creates the command set over sess. log may be nil.
func New(sess Session, log logrus.FieldLogger) *Commands {
	if log == nil {
		log = logging.Discard()
	}
	return &Commands{sess: sess, log: log.WithField("component", "auth")}
}

// LoginUser logs in with creds.
func (c *Commands) LoginUser(ctx context.Context, creds session.Credentials) (session.AuthResult, *AuthError) {
	res, err := c.sess.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return session.AuthResult{}, c.fail(CmdLoginUser, newAuthError(apperrors.LoginFailed, err))
	}
	return res, nil
}

// ValidateToken checks the stored token with the server.
func (c *Commands) ValidateToken(ctx context.Context) (session.AuthResult, *AuthError) {
	res, err := c.sess.ValidateStoredToken(ctx)
	if err != nil {
		return session.AuthResult{}, c.fail(CmdValidateToken, newAuthError(apperrors.TokenValidationFailed, err))
	}
	return res, nil
}

// LogoutUser clears the stored token.
func (c *Commands) LogoutUser() (session.AuthResult, *AuthError) {
	res, err := c.sess.Logout()
	if err != nil {
		return session.AuthResult{}, c.fail(CmdLogoutUser, newAuthError(apperrors.LogoutFailed, err))
	}
	return res, nil
}

// CheckAuthStatus reports whether a token is stored. It never fails and
// never contacts the server.
func (c *Commands) CheckAuthStatus() bool {
	return c.sess.HasStoredToken()
}

// RefreshUserProfile re-fetches the profile behind the stored token.
func (c *Commands) RefreshUserProfile(ctx context.Context) (session.AuthResult, *AuthError) {
	res, err := c.sess.RefreshProfile(ctx)
	if err == nil {
		return res, nil
	}

	code := apperrors.ProfileRefreshFailed
	switch apperrors.KindOf(err) {
	case apperrors.NoToken:
		code = apperrors.NoTokenFound
	case apperrors.Persistence:
		code = apperrors.TokenLoadFailed
	}
	return session.AuthResult{}, c.fail(CmdRefreshUserProfile, newAuthError(code, err))
}

func (c *Commands) fail(command string, ae *AuthError) *AuthError {
	entry := c.log.WithFields(logrus.Fields{
		"command":    command,
		"error_type": ae.ErrorType,
	})
	if ae.ErrorType == apperrors.NoTokenFound {
		entry.Info(ae.Message)
	} else {
		entry.Error(ae.Message)
	}
	return ae
}
