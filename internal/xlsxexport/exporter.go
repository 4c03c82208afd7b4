// =============================================================================
// Address Book Utility - XLSX Export
// =============================================================================
//
// This module flattens an address book into a spreadsheet: one row per
// entry, one column per key path.
//
// LAYOUT:
//   Row 1 holds the column headers; each following row is one record.
//
//   | @id | firstName | lastName | phone.@type  | phone.#text          | address.city |
//   |-----|-----------|----------|--------------|----------------------|--------------|
//   | 1   | Ada       | Lovelace | home; mobile | 555-0100; 555-0199   | London       |
//
// RECORD SELECTION:
//   The records are the first entry under the root whose value is an array
//   or an object (for an address book, the "contact" entries). When the root
//   has no such entry, the root itself is the single record.
//
// FLATTENING:
//   - Nested objects extend the column name with "." ("address.city")
//   - Repeated values for the same column are joined with "; "
//   - Columns appear in first-seen order across all records
//
// =============================================================================

package xlsxexport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/ginjaninja78/address-book-utility/internal/errors"
	"github.com/ginjaninja78/address-book-utility/internal/jsonvalue"
	"github.com/ginjaninja78/address-book-utility/internal/logging"
)

// DefaultSheet is the sheet name used when none is configured.
const DefaultSheet = "AddressBook"

// valueSeparator joins repeated values in one cell.
const valueSeparator = "; "

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Table is the flattened form of a document.
type Table struct {
	// Columns are the header names in first-seen order.
	Columns []string

	// Rows holds one cell slice per record, aligned with Columns.
	Rows [][]string
}

// record collects the values of one row by column.
type record struct {
	values map[string][]string
}

// =============================================================================
// EXPORTER
// =============================================================================

// Exporter writes address books as XLSX workbooks.
type Exporter struct {
	sheet  string
	logger *slog.Logger
}

// NewExporter creates an Exporter writing to the named sheet. A nil logger
// discards log output.
func NewExporter(sheet string, logger *slog.Logger) *Exporter {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exporter{sheet: sheet, logger: logger}
}

// Export flattens doc and returns the encoded workbook.
//
// PARAMETERS:
//   - doc: A JSON value tree with a single top-level key (the root element).
//
// RETURNS:
//   - The XLSX file content.
//   - An AmbiguousRoot error when doc is not a single-key object.
func (e *Exporter) Export(doc any) ([]byte, error) {
	table, err := Flatten(doc)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeTable(f, table); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}

	e.logger.Debug("exported workbook", "sheet", e.sheet, "columns", len(table.Columns), "rows", len(table.Rows))
	return buf.Bytes(), nil
}

// writeTable fills the sheet with the header row and the records.
func (e *Exporter) writeTable(f *excelize.File, table *Table) error {
	defaultSheet := f.GetSheetName(0)
	if defaultSheet != e.sheet {
		if err := f.SetSheetName(defaultSheet, e.sheet); err != nil {
			return fmt.Errorf("invalid sheet name %q: %w", e.sheet, err)
		}
	}

	if len(table.Columns) == 0 {
		return nil
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, name := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(e.sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header %s: %w", cell, err)
		}
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(table.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(e.sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for r, row := range table.Rows {
		for col, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(e.sheet, cell, cellValue(value)); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	lastColumn, err := excelize.ColumnNumberToName(len(table.Columns))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(e.sheet, "A", lastColumn, 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	return nil
}

// cellValue stores plain integers as numbers and everything else as text.
// Leading-zero values such as postal codes stay text.
func cellValue(value string) any {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil && strconv.FormatInt(n, 10) == value {
		return n
	}
	return value
}

// =============================================================================
// FLATTENING
// =============================================================================

// Flatten turns a single-root JSON document into a table.
func Flatten(doc any) (*Table, error) {
	entries, ok := jsonvalue.Entries(doc)
	if !ok || len(entries) != 1 {
		return nil, apperrors.New(apperrors.KindAmbiguousRoot,
			"spreadsheet export needs a document with exactly one root element", nil)
	}

	items := recordItems(entries[0].Value)

	table := &Table{}
	seen := make(map[string]bool)
	records := make([]record, 0, len(items))

	for _, item := range items {
		rec := record{values: make(map[string][]string)}
		collect(item, "", &rec, func(column string) {
			if !seen[column] {
				seen[column] = true
				table.Columns = append(table.Columns, column)
			}
		})
		records = append(records, rec)
	}

	for _, rec := range records {
		row := make([]string, len(table.Columns))
		for i, column := range table.Columns {
			row[i] = strings.Join(rec.values[column], valueSeparator)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// recordItems picks the values that become rows.
func recordItems(root any) []any {
	entries, ok := jsonvalue.Entries(root)
	if !ok {
		return []any{root}
	}

	for _, entry := range entries {
		switch v := entry.Value.(type) {
		case []any:
			return v
		default:
			if _, isObject := jsonvalue.Entries(v); isObject {
				return []any{v}
			}
		}
	}

	return []any{root}
}

// collect adds the leaf values of value to rec under column paths rooted at
// prefix. addColumn is called for every column in first-seen order.
func collect(value any, prefix string, rec *record, addColumn func(string)) {
	if items, ok := value.([]any); ok {
		for _, item := range items {
			collect(item, prefix, rec, addColumn)
		}
		return
	}

	if entries, ok := jsonvalue.Entries(value); ok {
		for _, entry := range entries {
			column := entry.Key
			if prefix != "" {
				column = prefix + "." + entry.Key
			}
			collect(entry.Value, column, rec, addColumn)
		}
		return
	}

	column := prefix
	if column == "" {
		column = "value"
	}
	addColumn(column)

	text := scalarText(value)
	if text != "" {
		rec.values[column] = append(rec.values[column], text)
	}
}

// scalarText renders a JSON scalar as cell text.
func scalarText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
