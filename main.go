// =============================================================================
// Address Book Utility - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Address Book Utility CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   addressbook --input <path-or-url> --operation <op> [--output <path>]
//   addressbook schema     - Print the bundled XML schema
//   addressbook version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/address-book-utility/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
