package validation

import (
	"embed"
	"sync"
)

// SchemaFile is the name of the bundled address book schema.
const SchemaFile = "schemas/address_book.xsd"

//go:embed schemas/address_book.xsd
var bundled embed.FS

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
	defaultErr    error
)

// DefaultSchema returns the bundled address book schema, compiled on first use.
func DefaultSchema() (*Schema, error) {
	defaultOnce.Do(func() {
		defaultSchema, defaultErr = LoadSchema(bundled, SchemaFile)
	})
	return defaultSchema, defaultErr
}
