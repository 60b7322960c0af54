// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/drunsh/drun/internal/resolve"
	"github.com/drunsh/drun/pkg/scriptfile"
)

// BuildEnv computes the environment overlay for rs. The result is nil when
// there is neither an env file nor env variables, meaning the child inherits
// the parent environment unchanged.
//
// Layers, lowest to highest: the env file, global env, script env. load is
// only called when an env file is selected; a nil load falls back to
// LoadEnvFile relative to the working directory.
func BuildEnv(rs *resolve.ResolvedScript, global *scriptfile.GlobalConfig, load EnvFileLoader) (map[string]string, error) {
	file := rs.EnvFile.File()
	var globalEnv scriptfile.EnvVars
	if global != nil {
		globalEnv = global.Env
	}

	if file == "" && len(globalEnv) == 0 && len(rs.Env) == 0 {
		return nil, nil
	}

	env := make(map[string]string)
	if file != "" {
		if load == nil {
			load = DirEnvFileLoader("")
		}
		fromFile, err := load(file)
		if err != nil {
			var loadErr *EnvFileLoadError
			if !errors.As(err, &loadErr) {
				err = &EnvFileLoadError{Path: file, Err: err}
			}
			return nil, err
		}
		maps.Copy(env, fromFile)
	}
	maps.Copy(env, globalEnv)
	maps.Copy(env, rs.Env)
	return env, nil
}

// EnvToSlice renders env as sorted KEY=VALUE pairs.
func EnvToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}

// overlayEnviron returns base with env applied on top. Keys in env replace
// any existing entry for the same key in base.
func overlayEnviron(base []string, env map[string]string) []string {
	out := make([]string, 0, len(base)+len(env))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := env[key]; overridden {
			continue
		}
		out = append(out, kv)
	}
	return append(out, EnvToSlice(env)...)
}
