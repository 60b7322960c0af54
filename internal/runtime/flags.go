// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"strings"

	"github.com/drunsh/drun/pkg/scriptfile"
)

// PermissionFlags renders the effective permissions as --allow-* flags.
// local replaces global wholesale when set.
func PermissionFlags(local, global *scriptfile.Permissions) []string {
	perms := local
	if perms == nil {
		perms = global
	}
	if perms == nil {
		return nil
	}
	if perms.All {
		return []string{"--allow-all"}
	}

	var flags []string
	for _, b := range []struct {
		name    string
		granted bool
	}{
		{"env", perms.Env},
		{"hrtime", perms.HRTime},
		{"plugin", perms.Plugin},
		{"run", perms.Run},
	} {
		if b.granted {
			flags = append(flags, "--allow-"+b.name)
		}
	}
	for _, t := range []struct {
		name   string
		target *scriptfile.PermissionTarget
	}{
		{"net", perms.Net},
		{"read", perms.Read},
		{"write", perms.Write},
	} {
		if flag, ok := targetFlag(t.name, t.target); ok {
			flags = append(flags, flag)
		}
	}
	return flags
}

func targetFlag(name string, t *scriptfile.PermissionTarget) (string, bool) {
	switch {
	case !t.Granted():
		return "", false
	case t.All:
		return "--allow-" + name, true
	default:
		return "--allow-" + name + "=" + strings.Join(t.Targets, ","), true
	}
}

// TsconfigFlag returns --config=<path> for the effective tsconfig.
func TsconfigFlag(local, global string) []string {
	return valueFlag("--config", local, global)
}

// ImportMapFlag returns --import-map=<path>.
func ImportMapFlag(local, global string) []string {
	return valueFlag("--import-map", local, global)
}

// UnstableFlag returns --unstable when either side enables it.
func UnstableFlag(local, global bool) []string {
	if local || global {
		return []string{"--unstable"}
	}
	return nil
}

func valueFlag(flag, local, global string) []string {
	value := local
	if value == "" {
		value = global
	}
	if value == "" {
		return nil
	}
	return []string{flag + "=" + value}
}
