// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

const (
	// ExitOK is returned when the command succeeded.
	ExitOK = 0
	// ExitFailure is returned when catalogs failed to load or resolve.
	ExitFailure = 1
	// ExitUsage is returned for invalid flags, arguments or configuration.
	ExitUsage = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// A nil Err means the failure was already reported to the user.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func failure(err error) error { return &ExitError{Code: ExitFailure, Err: err} }

func usage(err error) error { return &ExitError{Code: ExitUsage, Err: err} }
