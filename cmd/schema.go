// =============================================================================
// Address Book Utility - Schema Command
// =============================================================================
//
// This file defines the 'schema' command, which prints the XML Schema
// Definition bundled into the binary. validate-xml checks documents against
// exactly this schema.
//
// COMMAND USAGE:
//   addressbook schema > address_book.xsd
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/address-book-utility/internal/validation"
)

// schemaCmd represents the 'schema' command.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the bundled address book schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Compile first so a broken bundle is reported, not printed.
		schema, err := validation.DefaultSchema()
		if err != nil {
			return fmt.Errorf("failed to load bundled schema: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(schema.Source())
		return err
	},
}

// init registers the schema command with the root command.
func init() {
	rootCmd.AddCommand(schemaCmd)
}
