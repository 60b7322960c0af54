// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE parsing flow for script declarations. The
// application config reuses its size check and error formatting.
//
// ParseAndDecode takes every input through the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data (CUE, YAML, JSON or TOML) and unify it with the schema
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed scriptfile_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[rawDeclaration](
//	    schema,
//	    data,
//	    "#Declaration",
//	    cueutil.WithFilename("scripts.yaml"),
//	    cueutil.WithFormat(cueutil.FormatYAML),
//	)
package cueutil
