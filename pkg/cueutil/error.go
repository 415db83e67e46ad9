// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

type (
	// ValidationError lists the problems CUE found in one file.
	ValidationError struct {
		FilePath string
		Issues   []Issue
	}

	// Issue is one validation failure.
	Issue struct {
		// Path is the JSON-style path to the offending value, e.g.
		// types[0].kind. Empty when the error is not tied to a field.
		Path    string
		Message string
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Issues[0])
	}
	lines := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		lines[i] = is.String()
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// FormatError converts a CUE error into a *ValidationError. Errors that do
// not come from CUE are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	var ce cueerrors.Error
	if !errors.As(err, &ce) {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	list := cueerrors.Errors(err)

	ve := &ValidationError{FilePath: filePath}
	for _, e := range list {
		raw := cueerrors.Path(e)
		path := formatPath(raw)
		msg := e.Error()
		// CUE often repeats the path at the start of the message.
		if path != "" {
			for _, prefix := range []string{strings.Join(raw, "."), path} {
				if rest, ok := strings.CutPrefix(msg, prefix); ok {
					msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
					break
				}
			}
		}
		ve.Issues = append(ve.Issues, Issue{Path: path, Message: msg})
	}
	return ve
}

// formatPath turns ["#Catalog", "types", "0", "kind"] into "types[0].kind".
// A leading schema definition is dropped.
func formatPath(path []string) string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize fails when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
