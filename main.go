// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the authbridge CLI.
// It signs the Legal Toolkit desktop app in and manages the stored session token.
package main

import (
	"legaltoolkit/authbridge/cmd"
)

// main is the entry point for the authbridge CLI.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
