// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize bounds the size of any parsed input (5 MiB).
const DefaultMaxFileSize int64 = 5 << 20

const (
	// FormatCUE is native CUE syntax.
	FormatCUE Format = "cue"
	// FormatYAML is YAML (and therefore also JSON).
	FormatYAML Format = "yaml"
	// FormatJSON is JSON, parsed through the YAML extractor.
	FormatJSON Format = "json"
	// FormatTOML is TOML, decoded with go-toml and encoded into CUE.
	FormatTOML Format = "toml"
)

type (
	// Format identifies the syntax of the user data handed to ParseAndDecode.
	Format string

	// Option configures ParseAndDecode.
	Option func(*options)

	options struct {
		filename string
		format   Format
	}
)

func defaultOptions() options {
	return options{format: FormatCUE}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithFormat sets the syntax of the user data. The default is FormatCUE.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// FormatFromPath infers the Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%s: unsupported file extension %q", path, filepath.Ext(path))
	}
}
