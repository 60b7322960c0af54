// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvFileLoader loads KEY=VALUE pairs from the dotenv file at path.
type EnvFileLoader func(path string) (map[string]string, error)

// DirEnvFileLoader returns an EnvFileLoader that resolves relative paths
// against dir.
func DirEnvFileLoader(dir string) EnvFileLoader {
	return func(path string) (map[string]string, error) {
		return LoadEnvFile(path, dir)
	}
}

// LoadEnvFile reads a dotenv file. Relative paths are resolved against dir;
// an empty dir means the process working directory. Read and parse failures
// are returned as *EnvFileLoadError.
func LoadEnvFile(path, dir string) (map[string]string, error) {
	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) && dir != "" {
		fullPath = filepath.Join(dir, fullPath)
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, &EnvFileLoadError{Path: path, Err: err}
	}

	env := make(map[string]string)
	if err := ParseEnvFile(env, content, path); err != nil {
		return nil, &EnvFileLoadError{Path: path, Err: err}
	}
	return env, nil
}

// ParseEnvFile parses dotenv content into env. Later keys override earlier
// ones. Supported syntax:
//   - blank lines and lines starting with # are skipped
//   - an optional "export " prefix
//   - KEY=value, with " #" starting an inline comment
//   - KEY="value" with \n, \r, \t, \\, \" and \$ escapes
//   - KEY='value', taken literally
//   - KEY= for an empty value
//
// filename is only used in error messages.
func ParseEnvFile(env map[string]string, content []byte, filename string) error {
	for i, line := range strings.Split(string(content), "\n") {
		lineNum := i + 1
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, raw, found := strings.Cut(line, "=")
		if !found {
			return fmt.Errorf("%s:%d: invalid format (missing '=')", filename, lineNum)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%s:%d: empty variable name", filename, lineNum)
		}

		value, err := parseEnvValue(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s:%d: %w", filename, lineNum, err)
		}
		env[key] = value
	}
	return nil
}

func parseEnvValue(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	switch quote := value[0]; quote {
	case '"', '\'':
		if len(value) < 2 || value[len(value)-1] != quote {
			if quote == '"' {
				return "", fmt.Errorf("unterminated double quote")
			}
			return "", fmt.Errorf("unterminated single quote")
		}
		inner := value[1 : len(value)-1]
		if quote == '\'' {
			return inner, nil
		}
		return unescapeDoubleQuoted(inner), nil
	}

	if idx := strings.Index(value, " #"); idx != -1 {
		value = strings.TrimSpace(value[:idx])
	}
	return value, nil
}

var doubleQuoteEscapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
	'"':  '"',
	'$':  '$',
}

// unescapeDoubleQuoted resolves backslash escapes. Unknown escapes are kept
// as written.
func unescapeDoubleQuoted(value string) string {
	var sb strings.Builder
	sb.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i+1 == len(value) {
			sb.WriteByte(c)
			continue
		}
		i++
		if repl, ok := doubleQuoteEscapes[value[i]]; ok {
			sb.WriteByte(repl)
		} else {
			sb.WriteByte('\\')
			sb.WriteByte(value[i])
		}
	}
	return sb.String()
}
