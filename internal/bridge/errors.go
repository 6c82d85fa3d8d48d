// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"errors"
	"fmt"

	apperrors "legaltoolkit/authbridge/internal/errors"
	"legaltoolkit/authbridge/internal/logging"
)

const genericUserMessage = "Something went wrong. Please try again."

// userMessages are the sentences shown to the user for each code.
var userMessages = map[apperrors.Code]string{
	apperrors.LoginFailed:           "Login failed. Please check your credentials and try again.",
	apperrors.TokenValidationFailed: "Session expired. Please log in again.",
	apperrors.LogoutFailed:          "Failed to logout. Please try again.",
	apperrors.NoTokenFound:          "Please log in to continue.",
	apperrors.TokenLoadFailed:       "Authentication error. Please try logging in again.",
	apperrors.ProfileRefreshFailed:  "Failed to refresh profile. Please try logging in again.",
	apperrors.InvalidArguments:      genericUserMessage,
	apperrors.UnknownCommand:        genericUserMessage,
}

// AuthError is the typed failure handed to the shell.
type AuthError struct {
	ErrorType   apperrors.Code `json:"error_type"`
	Message     string         `json:"message"`
	UserMessage string         `json:"user_message"`

	cause error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorType, e.Message)
}

// Unwrap returns the session error behind e, if any.
func (e *AuthError) Unwrap() error { return e.cause }

// UserMessageFor returns the user sentence for code, or a generic one for
// codes without their own.
func UserMessageFor(code apperrors.Code) string {
	if msg, ok := userMessages[code]; ok {
		return msg
	}
	return genericUserMessage
}

func newAuthError(code apperrors.Code, err error) *AuthError {
	return &AuthError{
		ErrorType:   code,
		Message:     detail(err),
		UserMessage: UserMessageFor(code),
		cause:       err,
	}
}

// detail is the debug text for err. The no_token kind carries a plain
// sentence, everything else is shown with its kind prefix.
func detail(err error) string {
	var e *apperrors.E
	if errors.As(err, &e) && e.Kind == apperrors.NoToken {
		return e.Message
	}
	return logging.Mask(err.Error())
}
