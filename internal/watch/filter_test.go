// SPDX-License-Identifier: MPL-2.0

package watch

import "testing"

func TestFilterAllows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		match      []string
		skip       []string
		extensions []string
		path       string
		want       bool
	}{
		{name: "no rules allows everything", path: "src/app.ts", want: true},
		{name: "default ignore git", path: ".git/HEAD", want: false},
		{name: "default ignore nested node_modules", path: "web/node_modules/x/index.js", want: false},
		{name: "default ignore swap file", path: "src/.app.ts.swp", want: false},
		{name: "default ignore backup file", path: "app.ts~", want: false},
		{name: "match doublestar", match: []string{"src/**/*.ts"}, path: "src/lib/a.ts", want: true},
		{name: "match rejects other dirs", match: []string{"src/**/*.ts"}, path: "test/a.ts", want: false},
		{name: "slash-less match uses base name", match: []string{"*.ts"}, path: "deep/dir/a.ts", want: true},
		{name: "skip wins over match", match: []string{"**/*.ts"}, skip: []string{"**/*_test.ts"}, path: "a_test.ts", want: false},
		{name: "skip directory", skip: []string{"dist/**"}, path: "dist/bundle.js", want: false},
		{name: "extension with dot", extensions: []string{".ts"}, path: "main.ts", want: true},
		{name: "extension without dot", extensions: []string{"tsx"}, path: "ui/App.TSX", want: true},
		{name: "extension rejects others", extensions: []string{"ts", "js"}, path: "README.md", want: false},
		{name: "match and extension combine", match: []string{"src/**"}, extensions: []string{"ts"}, path: "src/a.js", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := newFilter(tt.match, tt.skip, tt.extensions)
			if err != nil {
				t.Fatalf("newFilter() error: %v", err)
			}
			if got := f.allows(tt.path); got != tt.want {
				t.Errorf("allows(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewFilterRejectsInvalidPatterns(t *testing.T) {
	t.Parallel()

	if _, err := newFilter([]string{"[unclosed"}, nil, nil); err == nil {
		t.Error("expected error for invalid match pattern")
	}
	if _, err := newFilter(nil, []string{"{a,b"}, nil); err == nil {
		t.Error("expected error for invalid skip pattern")
	}
}

func TestDefaultIgnoresReturnsCopy(t *testing.T) {
	t.Parallel()

	ignores := DefaultIgnores()
	ignores[0] = "changed"
	if DefaultIgnores()[0] == "changed" {
		t.Error("DefaultIgnores must return a copy")
	}
}

func TestMergeBatchDeduplicates(t *testing.T) {
	t.Parallel()

	got := mergeBatch(Batch{{Path: "a", Kind: KindCreate}}, Batch{
		{Path: "b", Kind: KindWrite},
		{Path: "a", Kind: KindWrite},
	})
	if len(got) != 2 || got[0] != (Change{Path: "a", Kind: KindWrite}) || got[1].Path != "b" {
		t.Errorf("mergeBatch() = %v", got)
	}
}
