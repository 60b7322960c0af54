// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/drunsh/drun/pkg/scriptfile"
)

type (
	// Invocation is what the user asked for: a script name and the trailing
	// arguments to pass through.
	Invocation struct {
		ScriptName string
		RestArgs   []string
	}

	// Probe reports whether a file with the given name exists in the working
	// directory. It is the only observable effect of Resolve.
	Probe func(name string) bool

	// ResolvedScript is a script definition with the global configuration
	// applied.
	ResolvedScript struct {
		// Name is the script name.
		Name string
		// Target is the script variant. It is shared with the declaration
		// and must be treated as read-only; the resolved fields below take
		// precedence over its own fields.
		Target scriptfile.Script

		EnvFile *scriptfile.EnvFile
		// Env is the merged global and script environment.
		Env  map[string]string
		Args *scriptfile.Words
		// Watch is nil when watch mode is disabled.
		Watch *scriptfile.WatchOptions

		Permissions *scriptfile.Permissions
		Tsconfig    string
		DenoArgs    *scriptfile.Words

		// Global-only settings.
		ImportMap string
		Unstable  bool
		Debug     bool
	}
)

// DirProbe returns a Probe that checks for regular files in dir.
func DirProbe(dir string) Probe {
	return func(name string) bool {
		info, err := os.Stat(filepath.Join(dir, name))
		return err == nil && !info.IsDir()
	}
}

// Resolve looks up inv.ScriptName in decl and applies the global
// configuration to it. probe may be nil, in which case the envFile default
// is never activated.
func Resolve(inv Invocation, decl *scriptfile.Declaration, probe Probe) (*ResolvedScript, error) {
	script, ok := decl.Lookup(inv.ScriptName)
	if !ok {
		return nil, &ScriptNotFoundError{Name: inv.ScriptName}
	}

	global := &decl.Global
	common := script.Common()

	rs := &ResolvedScript{
		Name:      inv.ScriptName,
		Target:    script,
		EnvFile:   resolveEnvFile(common.EnvFile, global.EnvFile, probe),
		Env:       mergeEnv(global.Env, common.Env),
		Args:      override(common.Args, global.Args).Clone(),
		Watch:     resolveWatch(common.Watch, global.Watch),
		ImportMap: global.ImportMap,
		Unstable:  global.Unstable,
		Debug:     global.Debug,
	}

	if fs, ok := script.(*scriptfile.FileScript); ok {
		rs.Permissions = override(fs.Permissions, global.Permissions).Clone()
		rs.Tsconfig = overrideString(fs.Tsconfig, global.Tsconfig)
		rs.DenoArgs = override(fs.DenoArgs, global.DenoArgs).Clone()
	}

	return rs, nil
}

// override returns local when set, else global.
func override[T any](local, global *T) *T {
	if local != nil {
		return local
	}
	return global
}

func overrideString(local, global string) string {
	if local != "" {
		return local
	}
	return global
}

func resolveEnvFile(local, global *scriptfile.EnvFile, probe Probe) *scriptfile.EnvFile {
	if chosen := override(local, global); chosen != nil {
		c := *chosen
		return &c
	}
	if probe != nil && probe(scriptfile.DefaultEnvFile) {
		return &scriptfile.EnvFile{Enabled: true}
	}
	return nil
}

// mergeEnv returns the union of global and local; local wins on conflict.
// The result is nil when both are empty.
func mergeEnv(global, local scriptfile.EnvVars) map[string]string {
	if len(global) == 0 && len(local) == 0 {
		return nil
	}
	env := make(map[string]string, len(global)+len(local))
	maps.Copy(env, global)
	maps.Copy(env, local)
	return env
}

// resolveWatch applies the watch precedence rules:
//   - an explicit script bool wins (false disables; true uses the global
//     options, if any)
//   - script options merge over global options
//   - with no script setting the global setting applies
func resolveWatch(local, global *scriptfile.WatchSetting) *scriptfile.WatchOptions {
	var globalOpts *scriptfile.WatchOptions
	if global != nil {
		globalOpts = global.Options
	}

	switch {
	case local != nil && !local.Enabled:
		return nil
	case local != nil && local.Options != nil:
		return globalOpts.Merge(local.Options)
	case local != nil:
		return enabledOptions(globalOpts)
	case global != nil && global.Enabled:
		return enabledOptions(globalOpts)
	default:
		return nil
	}
}

func enabledOptions(opts *scriptfile.WatchOptions) *scriptfile.WatchOptions {
	if opts == nil {
		return &scriptfile.WatchOptions{}
	}
	return opts.Clone()
}

// WatchPaths returns the roots to watch: the script's own file (for file
// scripts) followed by the configured paths. Command scripts without paths
// watch the working directory.
func (rs *ResolvedScript) WatchPaths() []string {
	var paths []string
	if fs, ok := rs.Target.(*scriptfile.FileScript); ok && fs.File != "" {
		paths = append(paths, fs.File)
	}
	if rs.Watch != nil {
		for _, p := range rs.Watch.Paths {
			if !slices.Contains(paths, p) {
				paths = append(paths, p)
			}
		}
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return paths
}
