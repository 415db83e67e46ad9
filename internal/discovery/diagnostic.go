// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a catalog that could not be loaded.
	SeverityError Severity = "error"

	// CodeSearchPathMissing reports a configured search path that does not exist.
	CodeSearchPathMissing = "search_path_missing"
	// CodeDuplicatePath reports a catalog reached from two sources.
	CodeDuplicatePath = "duplicate_path"
	// CodeCatalogInvalid reports a catalog that failed to parse or validate.
	CodeCatalogInvalid = "catalog_invalid"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal discovery finding, returned to callers
	// rather than printed so the CLI decides how to render it.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier such as "search_path_missing".
		Code    string
		Message string
		Path    string
		Cause   error
	}
)
