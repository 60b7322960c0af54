// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProjectDir(t *testing.T) {
	t.Parallel()

	dir := ProjectDir(t, map[string]string{
		"scripts.cue":  "scripts: {}",
		"src/lib/a.ts": "export {}",
	})

	for name, want := range map[string]string{"scripts.cue": "scripts: {}", "src/lib/a.ts": "export {}"} {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestMustChdir(t *testing.T) {
	original, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	restore := MustChdir(t, dir)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	resolvedDir, _ := filepath.EvalSymlinks(dir)
	resolvedWd, _ := filepath.EvalSymlinks(wd)
	if resolvedWd != resolvedDir {
		t.Errorf("working directory = %q, want %q", wd, dir)
	}

	restore()
	if wd, _ := os.Getwd(); wd != original {
		t.Errorf("working directory after restore = %q, want %q", wd, original)
	}
}
