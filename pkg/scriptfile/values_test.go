// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestWordsTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		words *Words
		want  []string
	}{
		{"nil", nil, nil},
		{"scalar", NewWords("echo  hello\tworld"), []string{"echo", "hello", "world"}},
		{"empty scalar", NewWords("   "), []string{}},
		{"list kept verbatim", NewWordList("echo", "hello world"), []string{"echo", "hello world"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.words.Tokens()
			if len(got) != len(tt.want) || !slices.Equal(got, tt.want) {
				t.Errorf("Tokens() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWordsTokensDoesNotAlias(t *testing.T) {
	t.Parallel()

	w := NewWordList("a", "b")
	tokens := w.Tokens()
	tokens[0] = "changed"
	if w.List[0] != "a" {
		t.Error("Tokens() must return a copy")
	}
}

func TestEnvFileUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{`true`, ".env"},
		{`false`, ""},
		{`"config/.env.test"`, "config/.env.test"},
		{`""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var e EnvFile
			if err := json.Unmarshal([]byte(tt.input), &e); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if got := e.File(); got != tt.want {
				t.Errorf("File() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvVarsRendersScalars(t *testing.T) {
	t.Parallel()

	var env EnvVars
	if err := json.Unmarshal([]byte(`{"S": "x", "N": 8080, "F": 1.5, "B": true}`), &env); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	want := map[string]string{"S": "x", "N": "8080", "F": "1.5", "B": "true"}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("env[%s] = %q, want %q", k, env[k], v)
		}
	}

	if err := json.Unmarshal([]byte(`{"O": {"nested": 1}}`), &env); err == nil {
		t.Error("expected error for nested object value")
	}
}

func TestWatchOptionsMerge(t *testing.T) {
	t.Parallel()

	interval := 500
	recursive := false
	global := &WatchOptions{Paths: []string{"src"}, Interval: &interval, Match: []string{"**/*.ts"}}
	script := &WatchOptions{Match: []string{"**/*.js"}, Recursive: &recursive, Skip: []string{}}

	merged := global.Merge(script)

	if !slices.Equal(merged.Paths, []string{"src"}) {
		t.Errorf("Paths = %v, want global value", merged.Paths)
	}
	if !slices.Equal(merged.Match, []string{"**/*.js"}) {
		t.Errorf("Match = %v, want script value", merged.Match)
	}
	if merged.Skip == nil || len(merged.Skip) != 0 {
		t.Errorf("Skip = %#v, want explicit empty list", merged.Skip)
	}
	if *merged.Interval != 500 || *merged.Recursive {
		t.Errorf("Interval/Recursive = %d/%v", *merged.Interval, *merged.Recursive)
	}

	merged.Paths[0] = "changed"
	*merged.Interval = 1
	if global.Paths[0] != "src" || *global.Interval != 500 {
		t.Error("Merge must not alias its inputs")
	}

	if got := (*WatchOptions)(nil).Merge(script); got == script || !slices.Equal(got.Match, script.Match) {
		t.Error("nil receiver should return a copy of the override")
	}
}

func TestPermissionTarget(t *testing.T) {
	t.Parallel()

	var p Permissions
	if err := json.Unmarshal([]byte(`{"net": true, "read": ["./data"], "write": false}`), &p); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !p.Net.Granted() || !p.Net.All {
		t.Errorf("Net = %+v", p.Net)
	}
	if !p.Read.Granted() || !slices.Equal(p.Read.Targets, []string{"./data"}) {
		t.Errorf("Read = %+v", p.Read)
	}
	if p.Write.Granted() {
		t.Errorf("Write = %+v, want not granted", p.Write)
	}

	c := p.Clone()
	c.Read.Targets[0] = "changed"
	if p.Read.Targets[0] != "./data" {
		t.Error("Clone must not alias targets")
	}
}
