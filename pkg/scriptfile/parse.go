// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drunsh/drun/pkg/cueutil"
)

//go:embed scriptfile_schema.cue
var declarationSchema []byte

// ErrNoDeclaration is returned by Discover when no declaration file exists.
var ErrNoDeclaration = errors.New("no script declaration found")

// DeclarationFileNames lists the file names Discover looks for, in order.
var DeclarationFileNames = []string{
	"scripts.cue",
	"scripts.yaml",
	"scripts.yml",
	"scripts.json",
	"scripts.toml",
}

type rawDeclaration struct {
	Global  GlobalConfig               `json:"global"`
	Scripts map[string]json.RawMessage `json:"scripts"`
}

// variantProbe peeks at the discriminating fields of a script definition.
type variantProbe struct {
	File *string         `json:"file"`
	Run  json.RawMessage `json:"run"`
}

// Discover returns the path of the first declaration file found in dir.
func Discover(dir string) (string, error) {
	for _, name := range DeclarationFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoDeclaration, dir)
}

// Load reads and parses the declaration at path. The format follows the
// file extension.
func Load(path string) (*Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script declaration at %s: %w", path, err)
	}
	format, err := cueutil.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path, format)
}

// Parse validates data against the declaration schema and decodes it.
func Parse(data []byte, path string, format cueutil.Format) (*Declaration, error) {
	result, err := cueutil.ParseAndDecode[rawDeclaration](
		declarationSchema,
		data,
		"#Declaration",
		cueutil.WithFilename(path),
		cueutil.WithFormat(format),
	)
	if err != nil {
		return nil, err
	}

	raw := result.Value
	decl := &Declaration{
		Global:   raw.Global,
		Scripts:  make(map[string]Script, len(raw.Scripts)),
		FilePath: path,
	}
	for name, body := range raw.Scripts {
		script, err := decodeScript(body)
		if err != nil {
			return nil, fmt.Errorf("%s: scripts.%s: %w", path, name, err)
		}
		decl.Scripts[name] = script
	}
	return decl, nil
}

// decodeScript decides the variant of a single definition.
func decodeScript(body json.RawMessage) (Script, error) {
	var probe variantProbe
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, err
	}

	switch {
	case probe.File != nil && probe.Run != nil:
		return nil, errors.New("'file' and 'run' are mutually exclusive")
	case probe.File != nil:
		var s FileScript
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case probe.Run != nil:
		var s CommandScript
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, err
		}
		return &s, nil
	default:
		return nil, errors.New("one of 'file' or 'run' is required")
	}
}
