// =============================================================================
// Address Book Utility - Process Function
// =============================================================================
//
// This file holds the work behind the root command: it wires configuration,
// logging, the bundled schema and the input resolver into a Converter, runs
// the requested operation and reports the result.
//
// PROCESSING PIPELINE:
//   1. Load configuration (--config, or addressbook.yaml when present)
//   2. Load the bundled schema
//   3. Run the operation (see internal/converter)
//   4. Report "Wrote <path>" or "XML is valid!"
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/address-book-utility/internal/config"
	"github.com/ginjaninja78/address-book-utility/internal/converter"
	"github.com/ginjaninja78/address-book-utility/internal/input"
	"github.com/ginjaninja78/address-book-utility/internal/logging"
	"github.com/ginjaninja78/address-book-utility/internal/types"
	"github.com/ginjaninja78/address-book-utility/internal/validation"
)

// =============================================================================
// PROCESS FUNCTION
// =============================================================================

// runProcess executes the requested operation.
func runProcess(cmd *cobra.Command) error {
	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	// =========================================================================
	// STEP 2: LOAD SCHEMA
	// =========================================================================

	schema, err := validation.DefaultSchema()
	if err != nil {
		return fmt.Errorf("failed to load bundled schema: %w", err)
	}

	// =========================================================================
	// STEP 3: RUN
	// =========================================================================

	resolver := input.NewResolver(
		input.WithTimeout(cfg.FetchTimeout),
		input.WithLogger(logger),
	)
	conv := converter.New(cfg, resolver, schema, logger)

	if outputPath != "" && operationName == string(types.OpValidateXML) {
		logger.Debug("ignoring --output for validation", "output", outputPath)
	}

	result, err := conv.Run(cmd.Context(), converter.Request{
		Operation: types.Operation(operationName),
		Input:     inputLocation,
		Output:    outputPath,
	})
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: REPORT
	// =========================================================================

	out := cmd.OutOrStdout()
	if result.Operation == types.OpValidateXML {
		fmt.Fprintln(out, "XML is valid!")
		return nil
	}

	fmt.Fprintf(out, "Wrote %s\n", result.OutputFile)
	return nil
}

// loadConfig loads --config, or the default file when it exists.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadOptional(cfgFile, true)
	}
	return config.LoadOptional(config.DefaultConfigFile, false)
}

// newLogger creates the logger for the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}
