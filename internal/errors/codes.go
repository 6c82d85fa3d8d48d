// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

// Code is the machine code handed to the desktop shell in an AuthError.
type Code string

const (
	LoginFailed           Code = "LOGIN_FAILED"
	TokenValidationFailed Code = "TOKEN_VALIDATION_FAILED"
	LogoutFailed          Code = "LOGOUT_FAILED"
	ProfileRefreshFailed  Code = "PROFILE_REFRESH_FAILED"
	NoTokenFound          Code = "NO_TOKEN"
	TokenLoadFailed       Code = "TOKEN_LOAD_FAILED"
	InvalidArguments      Code = "INVALID_ARGUMENTS"
	UnknownCommand        Code = "UNKNOWN_COMMAND"
)
