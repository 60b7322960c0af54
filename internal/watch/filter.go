// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultIgnores are excluded regardless of configuration: VCS metadata,
// dependency caches, editor swap files and OS metadata.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// filter decides whether a change to a path relative to the base directory
// is reported.
type filter struct {
	match      []string
	skip       []string
	extensions []string
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func newFilter(match, skip, extensions []string) (*filter, error) {
	if err := validatePatterns(match, "match"); err != nil {
		return nil, err
	}
	if err := validatePatterns(skip, "skip"); err != nil {
		return nil, err
	}

	f := &filter{
		match: slices.Clone(match),
		skip:  append(DefaultIgnores(), skip...),
	}
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			f.extensions = append(f.extensions, "."+strings.ToLower(ext))
		}
	}
	return f, nil
}

// allows reports whether a change to rel (slash-separated) passes the skip,
// match and extension rules.
func (f *filter) allows(rel string) bool {
	if f.ignored(rel) {
		return false
	}
	if len(f.match) > 0 && !matchAny(f.match, rel) {
		return false
	}
	if len(f.extensions) > 0 && !slices.Contains(f.extensions, strings.ToLower(path.Ext(rel))) {
		return false
	}
	return true
}

// ignored reports whether rel is excluded by a default or configured skip
// pattern. Directories are also tested with a trailing slash so "**/.git/**"
// prunes the .git directory itself.
func (f *filter) ignored(rel string) bool {
	return matchAny(f.skip, rel) || matchAny(f.skip, rel+"/")
}

// matchAny reports whether rel matches one of patterns. A pattern without a
// slash is also tried against the base name, so "*.ts" matches "src/a.ts".
func matchAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
		if !strings.Contains(pat, "/") {
			if ok, err := doublestar.Match(pat, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}
