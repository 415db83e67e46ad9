// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user files against embedded CUE schemas.
//
// Catalogs and the configuration file share one flow: compile the schema,
// load the user data (CUE source, or YAML mapped onto CUE values), unify it
// with a root definition, validate, and decode into a Go value. Validation
// failures come back as *ValidationError with JSON-style paths such as
// types[2].register[0].lifetime.
//
//	//go:embed catalog_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[File](schema, data, "#Catalog",
//	    cueutil.WithFilename(path),
//	    cueutil.WithEncoding(cueutil.EncodingFor(path)),
//	)
package cueutil
