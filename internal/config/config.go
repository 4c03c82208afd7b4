// =============================================================================
// Address Book Utility - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file. Every setting has a
// default, so the utility works without any configuration file at all.
//
// CONFIGURATION FILE (addressbook.yaml):
//   attribute_prefix: "@"       # JSON key prefix for XML attributes
//   text_key: "#text"           # JSON key for text next to attributes/children
//   indent: 4                   # spaces per indentation level in output
//   coerce_values: true         # turn numeric/boolean XML text into JSON types
//   xml_declaration: true       # emit <?xml ...?> when writing XML
//   fetch_timeout: 30s          # timeout for URL inputs
//   log_level: info             # debug, info, warn, error
//   xlsx_sheet: AddressBook     # sheet name for convert-to-xlsx
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file looked up when --config is not given.
const DefaultConfigFile = "addressbook.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// CONVERSION SETTINGS
	// =========================================================================

	// AttributePrefix is prepended to attribute names to form JSON keys.
	// Default: "@"
	AttributePrefix string `yaml:"attribute_prefix"`

	// TextKey is the JSON key holding element text when the element also
	// has attributes or child elements.
	// Default: "#text"
	TextKey string `yaml:"text_key"`

	// Indent is the number of spaces per nesting level in JSON and XML output.
	// Default: 4
	Indent int `yaml:"indent"`

	// CoerceValues converts XML text that looks like a number or boolean
	// into the matching JSON type. When false every text value is a string.
	// Default: true
	CoerceValues bool `yaml:"coerce_values"`

	// XMLDeclaration controls whether XML output starts with a declaration.
	// Default: true
	XMLDeclaration bool `yaml:"xml_declaration"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// FetchTimeout bounds the time spent reading a URL input.
	// Default: 30s
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// XLSXSheet is the sheet name used by convert-to-xlsx.
	// Default: "AddressBook"
	XLSXSheet string `yaml:"xlsx_sheet"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Default returns a Config with every setting at its default value.
func Default() *Config {
	cfg := &Config{
		Indent:         4,
		CoerceValues:   true,
		XMLDeclaration: true,
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads and validates a configuration file.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file.
//
// RETURNS:
//   - A pointer to the Config struct. Settings absent from the file keep
//     their defaults.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", configPath, err)
	}

	return cfg, nil
}

// LoadOptional loads configPath when it exists. A missing file yields the
// defaults unless required is set.
func LoadOptional(configPath string, required bool) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) && !required {
		return Default(), nil
	}
	return Load(configPath)
}

// Parse decodes YAML configuration bytes on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.AttributePrefix == "" {
		cfg.AttributePrefix = "@"
	}
	if cfg.TextKey == "" {
		cfg.TextKey = "#text"
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.XLSXSheet == "" {
		cfg.XLSXSheet = "AddressBook"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks the configuration for values the converter cannot use.
func (c *Config) Validate() error {
	if c.Indent < 0 || c.Indent > 16 {
		return fmt.Errorf("indent must be between 0 and 16, got %d", c.Indent)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must not be negative, got %s", c.FetchTimeout)
	}
	if c.TextKey == c.AttributePrefix {
		return fmt.Errorf("text_key and attribute_prefix must differ")
	}
	if strings.HasPrefix(c.TextKey, c.AttributePrefix) {
		return fmt.Errorf("text_key %q must not start with attribute_prefix %q", c.TextKey, c.AttributePrefix)
	}
	if startsLikeElementName(c.AttributePrefix) {
		return fmt.Errorf("attribute_prefix %q must not start with a character that can begin an element name", c.AttributePrefix)
	}
	if startsLikeElementName(c.TextKey) {
		return fmt.Errorf("text_key %q must not start with a character that can begin an element name", c.TextKey)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	return nil
}

// IndentString returns the indentation unit as a string of spaces.
func (c *Config) IndentString() string {
	return strings.Repeat(" ", c.Indent)
}

// startsLikeElementName reports whether key could be mistaken for an element
// name, i.e. whether its first character is an XML name-start character.
func startsLikeElementName(key string) bool {
	r, _ := utf8.DecodeRuneInString(key)
	return r == '_' || r == ':' || unicode.IsLetter(r)
}
