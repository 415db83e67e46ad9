// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize caps the size of a parsed file (5 MiB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

const (
	// EncodingCUE is CUE source.
	EncodingCUE Encoding = "cue"
	// EncodingYAML is a YAML document mapped onto CUE values.
	EncodingYAML Encoding = "yaml"
)

type (
	// Encoding names the syntax of the user data.
	Encoding string

	parseOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
		encoding    Encoding
	}

	// Option configures parsing behavior.
	Option func(*parseOptions)
)

func defaultOptions() parseOptions {
	return parseOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
		encoding:    EncodingCUE,
	}
}

// EncodingFor picks the encoding from a file extension. Anything that is not
// .yaml or .yml is treated as CUE.
func EncodingFor(filename string) Encoding {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return EncodingYAML
	default:
		return EncodingCUE
	}
}

// WithMaxFileSize sets the maximum accepted input size.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) { o.maxFileSize = size }
}

// WithConcrete controls whether every value must be concrete after
// unification. It defaults to true; configuration files turn it off so that
// unset optional fields are accepted.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) { o.concrete = concrete }
}

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *parseOptions) { o.filename = name }
}

// WithEncoding sets the syntax of the user data. Default is EncodingCUE.
func WithEncoding(enc Encoding) Option {
	return func(o *parseOptions) { o.encoding = enc }
}
