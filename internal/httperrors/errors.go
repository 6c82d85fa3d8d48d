// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
package httperrors

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	apperrors "legaltoolkit/authbridge/internal/errors"
)

// Class is the category of a failed API call.
type Class int

const (
	ClassUnknown Class = iota
	ClassTimeout
	ClassDNS
	ClassConnectionRefused
	ClassTLS
	ClassServer
	ClassUnauthorized
)

// Classify inspects err and reports what kind of transport or server failure it is.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassUnknown
	case isTimeoutError(err):
		return ClassTimeout
	case isDNSError(err):
		return ClassDNS
	case isConnectionRefusedError(err):
		return ClassConnectionRefused
	case isSSLError(err):
		return ClassTLS
	}

	if status := apperrors.StatusOf(err); status != 0 {
		if status == 401 || status == 403 {
			return ClassUnauthorized
		}
		if status >= 500 {
			return ClassServer
		}
	}
	if isServerError(err.Error()) {
		return ClassServer
	}
	return ClassUnknown
}

// Describe returns a one-line, user-facing explanation of err.
// context names the action, e.g. "signing in".
func Describe(err error, context string) string {
	if err == nil {
		return ""
	}
	switch Classify(err) {
	case ClassTimeout:
		return "The server took too long to respond while " + context + ". Please try again in a few moments."
	case ClassDNS:
		return "Cannot resolve the server address while " + context + ". Check your internet connection and DNS settings."
	case ClassConnectionRefused:
		return "The server refused the connection while " + context + ". The service may be down; please try again later."
	case ClassTLS:
		return "A secure connection could not be established while " + context + ". Check your system clock and proxy settings."
	case ClassServer:
		return "The server encountered an internal error while " + context + ". Please try again in a few minutes."
	case ClassUnauthorized:
		return "Your session is no longer accepted by the server. Please log in again."
	default:
		return "Something went wrong while " + context + "."
	}
}

// Present prints a formatted error block for err to the terminal.
func Present(err error, context string) {
	if err == nil {
		return
	}
	switch Classify(err) {
	case ClassTimeout:
		showTimeoutError(context)
	case ClassDNS:
		showDNSError(context)
	case ClassConnectionRefused:
		showConnectionRefusedError(context)
	case ClassTLS:
		showSSLError(context)
	case ClassServer:
		showServerError(context)
	default:
		pterm.Error.Println(Describe(err, context))
	}
	pterm.Debug.Printf("Technical details: %s\n", abbreviate(err.Error()))
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	// Check for timeout in error message
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	// Check for net.Error with Timeout()
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate")
}

// isServerError checks if the message indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "gateway timeout")
}

func showTimeoutError(context string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", context)
	pterm.Println()
	pterm.Println("The server took too long to respond. This could mean:")
	pterm.Println("  • Slow internet connection")
	pterm.Println("  • Server is under heavy load")
	pterm.Println("  • Network firewall is blocking the connection")
	pterm.Println()
}

func showDNSError(context string) {
	pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
	pterm.Println()
	pterm.Println("Please check:")
	pterm.Println("  • Your internet connection is working")
	pterm.Println("  • DNS settings are correct")
	pterm.Println("  • API_BASE_URL points at the right host")
	pterm.Println()
}

func showConnectionRefusedError(context string) {
	pterm.Printf("🚫 Connection refused while %s\n", context)
	pterm.Println()
	pterm.Println("The server is not accepting connections. This could mean:")
	pterm.Println("  • The service is temporarily down")
	pterm.Println("  • Firewall is blocking the connection")
	pterm.Println("  • Wrong server address or port")
	pterm.Println()
}

func showSSLError(context string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", context)
	pterm.Println()
	pterm.Println("Try:")
	pterm.Println("  • Check your system date and time")
	pterm.Println("  • Verify network proxy settings")
	pterm.Println()
}

func showServerError(context string) {
	pterm.Printf("⚠️  Server error while %s\n", context)
	pterm.Println()
	pterm.Println("This is not a problem with your setup. Please try again in a few minutes.")
	pterm.Println()
}

func abbreviate(s string) string {
	if len(s) > 100 {
		return s[:100] + "..."
	}
	return s
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
