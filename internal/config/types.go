// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// FormatText renders a styled, human-readable plan.
	FormatText OutputFormat = "text"
	// FormatJSON renders the plan as indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML renders the plan as YAML.
	FormatYAML OutputFormat = "yaml"
	// FormatTOML renders the plan as TOML.
	FormatTOML OutputFormat = "toml"

	// ColorAuto colors output only when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored output.
	ColorNever ColorMode = "never"
)

var (
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidColorMode is returned when a ColorMode value is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrInvalidCatalogPattern is returned when a catalog glob cannot be parsed.
	ErrInvalidCatalogPattern = errors.New("invalid catalog pattern")
	// ErrInvalidEnvironment is returned for an empty or whitespace environment token.
	ErrInvalidEnvironment = errors.New("invalid environment token")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputFormat selects how resolve results are printed.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// ColorMode controls styled output.
	ColorMode string

	// InvalidColorModeError is returned when a ColorMode value is not recognized.
	InvalidColorModeError struct {
		Value ColorMode
	}

	// CatalogPattern is a doublestar glob such as "**/*.catalog.cue".
	CatalogPattern string

	// InvalidCatalogPatternError is returned when a CatalogPattern is empty
	// or not a valid doublestar pattern.
	InvalidCatalogPatternError struct {
		Value CatalogPattern
	}

	// InvalidEnvironmentError is returned when an environment token is blank
	// or contains whitespace.
	InvalidEnvironmentError struct {
		Value string
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Environments are the tokens active during resolution.
		Environments []string `json:"environments" mapstructure:"environments"`
		// SearchPaths are scanned for catalogs when no path argument is given.
		SearchPaths []string `json:"search_paths" mapstructure:"search_paths"`
		// CatalogPatterns select catalog files inside searched directories.
		CatalogPatterns []CatalogPattern `json:"catalog_patterns" mapstructure:"catalog_patterns"`
		Output          OutputConfig     `json:"output" mapstructure:"output"`
		UI              UIConfig         `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, empty when
		// only defaults and environment variables apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// OutputConfig configures result rendering.
	OutputConfig struct {
		Format OutputFormat `json:"format" mapstructure:"format"`
	}

	// UIConfig configures the terminal user interface.
	UIConfig struct {
		// Verbose enables debug logging and rendered help pages on errors.
		Verbose bool      `json:"verbose" mapstructure:"verbose"`
		Color   ColorMode `json:"color" mapstructure:"color"`
	}
)

// DefaultCatalogPatterns are the globs used when none are configured.
func DefaultCatalogPatterns() []CatalogPattern {
	return []CatalogPattern{"**/*.catalog.cue", "**/*.catalog.yaml", "**/*.catalog.yml"}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Environments:    []string{},
		SearchPaths:     []string{},
		CatalogPatterns: DefaultCatalogPatterns(),
		Output:          OutputConfig{Format: FormatText},
		UI: UIConfig{
			Verbose: false,
			Color:   ColorAuto,
		},
	}
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml, toml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// String returns the string representation of the ColorMode.
func (c ColorMode) String() string { return string(c) }

// IsValid returns whether the ColorMode is one of the defined modes.
func (c ColorMode) IsValid() (bool, []error) {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true, nil
	default:
		return false, []error{&InvalidColorModeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorModeError) Error() string {
	return fmt.Sprintf("invalid color mode %q (valid: auto, always, never)", e.Value)
}

// Unwrap returns ErrInvalidColorMode for errors.Is() compatibility.
func (e *InvalidColorModeError) Unwrap() error { return ErrInvalidColorMode }

// String returns the string representation of the CatalogPattern.
func (p CatalogPattern) String() string { return string(p) }

// IsValid reports whether the pattern is a non-empty, well-formed doublestar glob.
func (p CatalogPattern) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" || !doublestar.ValidatePattern(string(p)) {
		return false, []error{&InvalidCatalogPatternError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidCatalogPatternError) Error() string {
	return fmt.Sprintf("invalid catalog pattern %q", e.Value)
}

// Unwrap returns ErrInvalidCatalogPattern for errors.Is() compatibility.
func (e *InvalidCatalogPatternError) Unwrap() error { return ErrInvalidCatalogPattern }

// Error implements the error interface.
func (e *InvalidEnvironmentError) Error() string {
	return fmt.Sprintf("invalid environment token %q: must be non-empty without whitespace", e.Value)
}

// Unwrap returns ErrInvalidEnvironment for errors.Is() compatibility.
func (e *InvalidEnvironmentError) Unwrap() error { return ErrInvalidEnvironment }

// IsValid returns whether every field of the Config is valid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, env := range c.Environments {
		if env == "" || strings.ContainsFunc(env, isSpace) {
			errs = append(errs, &InvalidEnvironmentError{Value: env})
		}
	}
	for _, p := range c.CatalogPatterns {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Output.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Color.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error lists every field error.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid config: %d field error(s)", len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so
// errors.Is matches both the sentinel and any field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Patterns returns the catalog patterns as plain strings.
func (c *Config) Patterns() []string {
	out := make([]string, len(c.CatalogPatterns))
	for i, p := range c.CatalogPatterns {
		out[i] = string(p)
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
