// =============================================================================
// Address Book Utility - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command runs
// the conversion or validation itself; the subcommands only report metadata.
//
// COBRA CLI STRUCTURE:
//   rootCmd (addressbook --input ... --operation ... [--output ...])
//   ├── schemaCmd  (addressbook schema)
//   └── versionCmd (addressbook version)
//
// EXIT STATUS:
//   0 on success, 1 on any failure (including an invalid document).
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/address-book-utility/internal/config"
	"github.com/ginjaninja78/address-book-utility/internal/types"
	"github.com/ginjaninja78/address-book-utility/internal/validation"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. When empty, the default
// file is used if it exists.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// inputLocation is the --input file path or URL.
var inputLocation string

// outputPath is the --output file path.
var outputPath string

// operationName is the --operation value.
var operationName string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "addressbook",
	Short: "Address Book Utility - Convert address books between XML and JSON",
	Long: `Address Book Utility converts address book documents between XML and JSON
and validates XML documents against the bundled address book schema.

The input can be a local file or an http(s) URL. Local files are recognized
by their extension (.xml, .json) or by their first character; URL inputs must
declare application/xml or application/json.

Operations:
  convert-to-json   XML -> JSON (JSON input is copied unchanged)
  convert-to-xml    JSON -> XML (XML input is copied unchanged)
  validate-xml      check XML against the bundled schema
  convert-to-xlsx   flatten the contacts into a spreadsheet

Example Usage:
  addressbook --input book.xml --operation convert-to-json --output book.json
  addressbook --input https://example.com/book.json --operation convert-to-xml --output book.xml
  addressbook --input book.xml --operation validate-xml`,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Without any of the main flags there is nothing to do.
		if inputLocation == "" && operationName == "" && outputPath == "" {
			return cmd.Help()
		}
		return runProcess(cmd)
	},
}

// =============================================================================
// EXECUTE FUNCTIONS
// =============================================================================

// Execute runs the CLI with the process arguments and exits with its status.
// This is called by main.main().
func Execute() {
	os.Exit(ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr))
}

// ExecuteArgs runs the CLI with args and returns the exit status.
//
// RETURNS:
//   - 0 on success.
//   - 1 on failure. An invalid document is reported on stdout as
//     "XML is invalid: ..."; every other error as "Error: ..." on stderr.
func ExecuteArgs(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var invalid *validation.ValidationError
		if errors.As(err, &invalid) {
			fmt.Fprintf(stdout, "XML is invalid: %v\n", invalid)
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags and the operation flags.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default "+config.DefaultConfigFile+" if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// ==========================================================================
	// OPERATION FLAGS
	// ==========================================================================

	rootCmd.Flags().StringVar(
		&inputLocation,
		"input",
		"",
		"Input file path or http(s) URL (required)",
	)

	rootCmd.Flags().StringVar(
		&outputPath,
		"output",
		"",
		"Output file path (required for conversions, ignored for validate-xml)",
	)

	rootCmd.Flags().StringVar(
		&operationName,
		"operation",
		"",
		"One of: "+types.OperationNames()+" (required)",
	)
}
