// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can tell an unreachable server apart from a
// rejected token or a broken keyring without parsing error strings.
//
// The package supports wrapping underlying errors while maintaining error kind information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Network indicates the request could not be sent or the response not received.
	Network Kind = "network_error"
	// Parse indicates a response body did not match the expected shape.
	Parse Kind = "parse_error"
	// Server indicates a non-2xx response from the API.
	Server Kind = "server_error"
	// Persistence indicates a token backend write, read or delete failure.
	Persistence Kind = "persistence_error"
	// NoToken indicates that no session token is stored. This is an expected
	// state rather than a failure; it only surfaces as an error where a token
	// is required.
	NoToken Kind = "no_token"
)

// E wraps an error with kind and human-friendly message.
// Status carries the HTTP status code for Server errors and is zero otherwise.
type E struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Status builds a Server error for an HTTP status code.
func Status(code int, msg string) *E { return &E{Kind: Server, Message: msg, Status: code} }

// KindOf returns the Kind of the first *E in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind anywhere in its chain.
// KindOf only sees the outermost *E; Is keeps unwrapping past it.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *E
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// StatusOf returns the HTTP status recorded on err, or 0.
func StatusOf(err error) int {
	var e *E
	if stderrors.As(err, &e) {
		return e.Status
	}
	return 0
}
