// =============================================================================
// Address Book Utility - Converter Module
// =============================================================================
//
// This module orchestrates one invocation of the utility, from reading the
// input to writing the output or reporting the validation result.
//
// PROCESSING PIPELINE:
//   1. Check the request (operation, input, output)
//   2. Check that the output location is writable (before any other work)
//   3. Resolve the input into an AddressInput (XML or JSON)
//   4. Dispatch on (operation, input type)
//   5. Write the output atomically, or report the validation result
//
// Every failure is terminal and nothing is written unless the whole
// transformation succeeded.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ginjaninja78/address-book-utility/internal/config"
	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/jsonvalue"
	"github.com/ginjaninja78/address-book-utility/internal/logging"
	"github.com/ginjaninja78/address-book-utility/internal/types"
	"github.com/ginjaninja78/address-book-utility/internal/validation"
	"github.com/ginjaninja78/address-book-utility/internal/xlsxexport"
	"github.com/ginjaninja78/address-book-utility/pkg/utils"
)

// =============================================================================
// REQUEST AND RESULT
// =============================================================================

// Request describes one invocation.
type Request struct {
	// Operation is the action to perform.
	Operation types.Operation

	// Input is a file path or an http(s) URL.
	Input string

	// Output is the destination file. Required for every operation that
	// writes output, ignored for validate-xml.
	Output string
}

// Result represents the outcome of a successful invocation.
type Result struct {
	// Operation is the operation that ran.
	Operation types.Operation

	// Source is where the input was read from.
	Source string

	// InputType is the detected format of the input.
	InputType types.InputType

	// OutputFile is the path written, empty for validate-xml.
	OutputFile string

	// BytesWritten is the size of the output.
	BytesWritten int

	// Identity is set when the input was already in the requested format
	// and was copied unchanged.
	Identity bool

	// Replaced is set when OutputFile existed before the run.
	Replaced bool

	// ProcessingTime is the time taken by Run.
	ProcessingTime time.Duration
}

// InputResolver obtains the input document.
type InputResolver interface {
	Resolve(ctx context.Context, location string) (types.AddressInput, error)
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs requests. It holds no per-request state.
type Converter struct {
	mapper   *Mapper
	exporter *xlsxexport.Exporter
	resolver InputResolver
	schema   *validation.Schema
	logger   *slog.Logger
}

// New creates a Converter.
//
// PARAMETERS:
//   - cfg: The application configuration (mapping options, sheet name).
//   - resolver: Reads the --input location.
//   - schema: The compiled schema used by validate-xml.
//   - logger: Destination for diagnostics; nil discards them.
func New(cfg *config.Config, resolver InputResolver, schema *validation.Schema, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Converter{
		mapper:   NewMapper(OptionsFromConfig(cfg), logger),
		exporter: xlsxexport.NewExporter(cfg.XLSXSheet, logger),
		resolver: resolver,
		schema:   schema,
		logger:   logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for req.
//
// RETURNS:
//   - The Result on success.
//   - A typed error (see internal/errors) on failure. A failed validation
//     returns a *validation.ValidationError.
func (c *Converter) Run(ctx context.Context, req Request) (Result, error) {
	startTime := time.Now()
	result := Result{Operation: req.Operation}

	// =========================================================================
	// STEP 1: CHECK REQUEST
	// =========================================================================

	op, err := checkRequest(req)
	if err != nil {
		return result, err
	}
	req.Operation = op
	result.Operation = op

	// =========================================================================
	// STEP 2: CHECK OUTPUT
	// =========================================================================
	// Fail before reading anything if the result could not be stored.

	if req.Operation.WritesOutput() {
		if err := utils.CheckWritable(req.Output); err != nil {
			return result, err
		}
	}

	// =========================================================================
	// STEP 3: RESOLVE INPUT
	// =========================================================================

	in, err := c.resolver.Resolve(ctx, req.Input)
	if err != nil {
		return result, err
	}
	result.Source = in.Source
	result.InputType = in.Type

	c.logger.Debug("resolved input", "source", in.Source, "type", in.Type, "bytes", len(in.Content))

	// =========================================================================
	// STEP 4: DISPATCH
	// =========================================================================

	var output []byte
	switch req.Operation {
	case types.OpValidateXML:
		if err := c.validate(in); err != nil {
			return result, err
		}
		result.ProcessingTime = time.Since(startTime)
		c.logger.Info("validated input", "source", in.Source)
		return result, nil

	case types.OpConvertToJSON:
		output, result.Identity, err = c.convertToJSON(in)

	case types.OpConvertToXML:
		output, result.Identity, err = c.convertToXML(in)

	case types.OpConvertToXLSX:
		output, err = c.convertToXLSX(in)

	default:
		err = apperrors.Newf(apperrors.KindUsage, "unsupported operation %q", req.Operation)
	}
	if err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 5: WRITE OUTPUT
	// =========================================================================

	result.Replaced = utils.FileExists(req.Output)

	if err := utils.WriteFileAtomic(req.Output, output); err != nil {
		return result, err
	}

	result.OutputFile = req.Output
	result.BytesWritten = len(output)
	result.ProcessingTime = time.Since(startTime)

	c.logger.Info("wrote output",
		"operation", req.Operation,
		"output", req.Output,
		"bytes", len(output),
		"identity", result.Identity,
		"replaced", result.Replaced,
		"duration", result.ProcessingTime)

	return result, nil
}

// checkRequest rejects missing or conflicting arguments.
func checkRequest(req Request) (types.Operation, error) {
	op, ok := types.ParseOperation(string(req.Operation))
	if !ok {
		return "", apperrors.Newf(apperrors.KindUsage, "unknown operation %q (expected one of %s)",
			req.Operation, types.OperationNames())
	}
	if req.Input == "" {
		return "", apperrors.New(apperrors.KindUsage, "--input is required", nil)
	}
	if op.WritesOutput() && req.Output == "" {
		return "", apperrors.Newf(apperrors.KindUsage, "--output is required for %s", op)
	}
	return op, nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

func (c *Converter) validate(in types.AddressInput) error {
	switch in.Type {
	case types.InputXML:
		if c.schema == nil {
			return fmt.Errorf("no schema loaded")
		}
		return validation.Validate(in.Content, c.schema)
	case types.InputJSON:
		return apperrors.Newf(apperrors.KindUsage, "%s requires XML input, but %s is JSON", types.OpValidateXML, in.Source)
	default:
		return unknownType(in)
	}
}

func (c *Converter) convertToJSON(in types.AddressInput) ([]byte, bool, error) {
	switch in.Type {
	case types.InputXML:
		text, err := c.mapper.XMLToJSONText(in.Content)
		return []byte(text), false, err
	case types.InputJSON:
		return []byte(in.Content), true, nil
	default:
		return nil, false, unknownType(in)
	}
}

func (c *Converter) convertToXML(in types.AddressInput) ([]byte, bool, error) {
	switch in.Type {
	case types.InputJSON:
		text, err := c.mapper.JSONToXMLText(in.Content)
		return []byte(text), false, err
	case types.InputXML:
		return []byte(in.Content), true, nil
	default:
		return nil, false, unknownType(in)
	}
}

func (c *Converter) convertToXLSX(in types.AddressInput) ([]byte, error) {
	var doc any
	var err error

	switch in.Type {
	case types.InputXML:
		doc, err = c.mapper.ToJSON(in.Content)
	case types.InputJSON:
		doc, err = jsonvalue.Decode(in.Content)
	default:
		return nil, unknownType(in)
	}
	if err != nil {
		return nil, err
	}

	return c.exporter.Export(doc)
}

func unknownType(in types.AddressInput) error {
	return apperrors.Newf(apperrors.KindUnsupportedMimeType, "unsupported input type %s for %s", in.Type, in.Source)
}
