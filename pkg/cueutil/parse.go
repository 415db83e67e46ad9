// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// ParseResult holds a decoded value and the unified CUE value it came from.
type ParseResult[T any] struct {
	Value *T
	// Unified is kept for callers that need to inspect fields the Go type
	// does not model.
	Unified cue.Value
}

// ParseAndDecode validates data against the definition at schemaPath in
// schema and decodes the result into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	root, err := CompileSchema(ctx, schema, schemaPath)
	if err != nil {
		return nil, err
	}

	user, err := load(ctx, data, filename, options.encoding)
	if err != nil {
		return nil, err
	}

	unified := root.Unify(user)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	return &ParseResult[T]{Value: &out, Unified: unified}, nil
}

// CompileSchema compiles an embedded schema and returns its definition at
// schemaPath. A failure here is a programming error in the schema.
func CompileSchema(ctx *cue.Context, schema []byte, schemaPath string) (cue.Value, error) {
	v := ctx.CompileBytes(schema)
	if v.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", v.Err())
	}
	def := v.LookupPath(cue.ParsePath(schemaPath))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, def.Err())
	}
	return def, nil
}

func load(ctx *cue.Context, data []byte, filename string, enc Encoding) (cue.Value, error) {
	if enc != EncodingYAML {
		v := ctx.CompileBytes(data, cue.Filename(filename))
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return cue.Value{}, fmt.Errorf("%s: invalid YAML: %w", filename, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	v := ctx.Encode(doc)
	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), filename)
	}
	return v, nil
}
