// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
	"github.com/pelletier/go-toml/v2"
)

// ParseResult contains the result of a successful parse.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T
}

// ParseAndDecode compiles schema, compiles data in the configured format,
// unifies it with the definition at schemaPath, validates and decodes into T.
//
// Decoding goes through the JSON form of the unified value, so types with a
// json.Unmarshaler (scalar-or-list fields, bool-or-object fields) decode
// exactly as they would from a JSON document.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue, err := compileUserData(ctx, data, filename, options.format)
	if err != nil {
		return nil, err
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)

	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, FormatError(err, filename)
	}

	raw, err := unified.MarshalJSON()
	if err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return &ParseResult[T]{Value: &result}, nil
}

// compileUserData turns data into a CUE value according to its format.
func compileUserData(ctx *cue.Context, data []byte, filename string, format Format) (cue.Value, error) {
	switch format {
	case FormatCUE, "":
		v := ctx.CompileBytes(data, cue.Filename(filename))
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil

	case FormatYAML, FormatJSON:
		file, err := yaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, FormatError(err, filename)
		}
		v := ctx.BuildFile(file)
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil

	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return cue.Value{}, fmt.Errorf("%s: %w", filename, err)
		}
		v := ctx.Encode(doc)
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil

	default:
		return cue.Value{}, fmt.Errorf("%s: unsupported format %q", filename, format)
	}
}
