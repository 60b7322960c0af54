// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultEnvFile is the dotenv file used when envFile is true.
const DefaultEnvFile = ".env"

type (
	// Words is a value written either as a single string or as a list of
	// strings. A string is split on whitespace when tokenized; a list is
	// used verbatim.
	Words struct {
		Line   string
		List   []string
		IsList bool
	}

	// EnvFile is the envFile setting: true selects DefaultEnvFile, a string
	// selects that path, false disables loading.
	EnvFile struct {
		Enabled bool
		Path    string
	}

	// EnvVars maps variable names to values. Numbers and booleans in the
	// declaration are rendered to their string form.
	EnvVars map[string]string

	// WatchSetting is the watch setting: a bool, or an options object which
	// implies true.
	WatchSetting struct {
		Enabled bool
		Options *WatchOptions
	}

	// WatchOptions configures the file watcher. Every field is optional so
	// global and script options can be merged key by key.
	WatchOptions struct {
		Paths      []string `json:"paths,omitempty"`
		Match      []string `json:"match,omitempty"`
		Skip       []string `json:"skip,omitempty"`
		Extensions []string `json:"extensions,omitempty"`
		// Interval is the poll period in milliseconds.
		Interval  *int  `json:"interval,omitempty"`
		Recursive *bool `json:"recursive,omitempty"`
	}

	// Permissions are the interpreter capability flags.
	Permissions struct {
		All    bool              `json:"all,omitempty"`
		Env    bool              `json:"env,omitempty"`
		HRTime bool              `json:"hrtime,omitempty"`
		Plugin bool              `json:"plugin,omitempty"`
		Run    bool              `json:"run,omitempty"`
		Net    *PermissionTarget `json:"net,omitempty"`
		Read   *PermissionTarget `json:"read,omitempty"`
		Write  *PermissionTarget `json:"write,omitempty"`
	}

	// PermissionTarget grants a capability entirely (All) or for a list of
	// targets (hosts or paths).
	PermissionTarget struct {
		All     bool
		Targets []string
	}
)

// NewWords returns a scalar Words value.
func NewWords(line string) *Words { return &Words{Line: line} }

// NewWordList returns a list Words value.
func NewWordList(list ...string) *Words { return &Words{List: slices.Clone(list), IsList: true} }

// Tokens returns the argument tokens. A nil receiver has no tokens.
func (w *Words) Tokens() []string {
	if w == nil {
		return nil
	}
	if w.IsList {
		return slices.Clone(w.List)
	}
	return strings.Fields(w.Line)
}

// Empty reports whether Tokens would return nothing.
func (w *Words) Empty() bool { return len(w.Tokens()) == 0 }

// Clone returns a deep copy.
func (w *Words) Clone() *Words {
	if w == nil {
		return nil
	}
	return &Words{Line: w.Line, List: slices.Clone(w.List), IsList: w.IsList}
}

// String returns the value as a single command line.
func (w *Words) String() string {
	if w == nil {
		return ""
	}
	if w.IsList {
		return strings.Join(w.List, " ")
	}
	return w.Line
}

// UnmarshalJSON accepts a string or a list of strings.
func (w *Words) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		*w = Words{Line: line}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or list of strings, got %s", data)
	}
	*w = Words{List: list, IsList: true}
	return nil
}

// File returns the path to load, or "" when disabled.
func (e *EnvFile) File() string {
	if e == nil || !e.Enabled {
		return ""
	}
	if e.Path == "" {
		return DefaultEnvFile
	}
	return e.Path
}

// UnmarshalJSON accepts a bool or a path.
func (e *EnvFile) UnmarshalJSON(data []byte) error {
	var enabled bool
	if err := json.Unmarshal(data, &enabled); err == nil {
		*e = EnvFile{Enabled: enabled}
		return nil
	}
	var path string
	if err := json.Unmarshal(data, &path); err != nil {
		return fmt.Errorf("envFile: expected bool or path, got %s", data)
	}
	*e = EnvFile{Enabled: path != "", Path: path}
	return nil
}

// UnmarshalJSON renders scalar values of any JSON type to strings.
func (v *EnvVars) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("env: %w", err)
	}

	out := make(EnvVars, len(raw))
	for key, value := range raw {
		switch val := value.(type) {
		case string:
			out[key] = val
		case json.Number:
			out[key] = val.String()
		case bool:
			out[key] = fmt.Sprint(val)
		case nil:
			out[key] = ""
		default:
			return fmt.Errorf("env: %s: expected scalar value, got %T", key, value)
		}
	}
	*v = out
	return nil
}

// Clone returns a copy, or nil for an empty map.
func (v EnvVars) Clone() EnvVars {
	if len(v) == 0 {
		return nil
	}
	return maps.Clone(v)
}

// UnmarshalJSON accepts a bool or a WatchOptions object.
func (w *WatchSetting) UnmarshalJSON(data []byte) error {
	var enabled bool
	if err := json.Unmarshal(data, &enabled); err == nil {
		*w = WatchSetting{Enabled: enabled}
		return nil
	}
	var opts WatchOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return fmt.Errorf("watch: expected bool or options object: %w", err)
	}
	*w = WatchSetting{Enabled: true, Options: &opts}
	return nil
}

// Clone returns a deep copy.
func (o *WatchOptions) Clone() *WatchOptions {
	if o == nil {
		return nil
	}
	c := &WatchOptions{
		Paths:      cloneKeepNil(o.Paths),
		Match:      cloneKeepNil(o.Match),
		Skip:       cloneKeepNil(o.Skip),
		Extensions: cloneKeepNil(o.Extensions),
	}
	if o.Interval != nil {
		interval := *o.Interval
		c.Interval = &interval
	}
	if o.Recursive != nil {
		recursive := *o.Recursive
		c.Recursive = &recursive
	}
	return c
}

// Merge returns the key-wise union of o and over; fields set in over win.
// Neither input is modified.
func (o *WatchOptions) Merge(over *WatchOptions) *WatchOptions {
	merged := o.Clone()
	if merged == nil {
		return over.Clone()
	}
	if over == nil {
		return merged
	}
	over = over.Clone()
	if over.Paths != nil {
		merged.Paths = over.Paths
	}
	if over.Match != nil {
		merged.Match = over.Match
	}
	if over.Skip != nil {
		merged.Skip = over.Skip
	}
	if over.Extensions != nil {
		merged.Extensions = over.Extensions
	}
	if over.Interval != nil {
		merged.Interval = over.Interval
	}
	if over.Recursive != nil {
		merged.Recursive = over.Recursive
	}
	return merged
}

// Clone returns a deep copy.
func (p *Permissions) Clone() *Permissions {
	if p == nil {
		return nil
	}
	c := *p
	c.Net = p.Net.clone()
	c.Read = p.Read.clone()
	c.Write = p.Write.clone()
	return &c
}

// Granted reports whether the target emits a flag.
func (t *PermissionTarget) Granted() bool {
	return t != nil && (t.All || len(t.Targets) > 0)
}

// UnmarshalJSON accepts a bool or a list of targets.
func (t *PermissionTarget) UnmarshalJSON(data []byte) error {
	var all bool
	if err := json.Unmarshal(data, &all); err == nil {
		*t = PermissionTarget{All: all}
		return nil
	}
	var targets []string
	if err := json.Unmarshal(data, &targets); err != nil {
		return fmt.Errorf("permission: expected bool or list, got %s", data)
	}
	*t = PermissionTarget{Targets: targets}
	return nil
}

func (t *PermissionTarget) clone() *PermissionTarget {
	if t == nil {
		return nil
	}
	return &PermissionTarget{All: t.All, Targets: slices.Clone(t.Targets)}
}

// cloneKeepNil clones s but keeps the nil/empty distinction that marks a
// field as unset versus explicitly empty.
func cloneKeepNil(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
