// SPDX-License-Identifier: MPL-2.0

package scriptfile

import "slices"

type (
	// Declaration is a loaded script declaration. It is read-only after load.
	Declaration struct {
		// Global holds the defaults applied to every script.
		Global GlobalConfig
		// Scripts maps script names to their definitions.
		Scripts map[string]Script
		// FilePath is the file the declaration was loaded from, if any.
		FilePath string
	}

	// Script is a script definition: either *FileScript or *CommandScript.
	Script interface {
		// Common returns the fields shared by both variants.
		Common() *CommonArgs
		isScript()
	}

	// CommonArgs are the fields every script variant and the global config share.
	CommonArgs struct {
		// EnvFile selects a dotenv file. nil means unset.
		EnvFile *EnvFile `json:"envFile,omitempty"`
		// Env holds extra environment variables.
		Env EnvVars `json:"env,omitempty"`
		// Args are appended to the invocation. nil means unset.
		Args *Words `json:"args,omitempty"`
		// Watch enables watch mode. nil means unset.
		Watch *WatchSetting `json:"watch,omitempty"`
	}

	// CommonDenoConfig extends CommonArgs with interpreter settings.
	CommonDenoConfig struct {
		CommonArgs
		Permissions *Permissions `json:"permissions,omitempty"`
		Tsconfig    string       `json:"tsconfig,omitempty"`
		DenoArgs    *Words       `json:"denoArgs,omitempty"`
	}

	// GlobalConfig applies to every script unless overridden.
	GlobalConfig struct {
		CommonDenoConfig
		Debug     bool   `json:"debug,omitempty"`
		ImportMap string `json:"importMap,omitempty"`
		Unstable  bool   `json:"unstable,omitempty"`
	}

	// FileScript runs File through the interpreter.
	FileScript struct {
		File string `json:"file"`
		CommonDenoConfig
	}

	// CommandScript runs Run directly, or through the embedded shell when
	// Shell is set.
	CommandScript struct {
		Run   Words `json:"run"`
		Shell bool  `json:"shell,omitempty"`
		CommonArgs
	}
)

// Common returns the shared fields.
func (s *FileScript) Common() *CommonArgs { return &s.CommonArgs }

func (*FileScript) isScript() {}

// Common returns the shared fields.
func (s *CommandScript) Common() *CommonArgs { return &s.CommonArgs }

func (*CommandScript) isScript() {}

// Names returns the declared script names in sorted order.
func (d *Declaration) Names() []string {
	names := make([]string, 0, len(d.Scripts))
	for name := range d.Scripts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the script registered under name.
func (d *Declaration) Lookup(name string) (Script, bool) {
	if d == nil || name == "" {
		return nil, false
	}
	s, ok := d.Scripts[name]
	return s, ok && s != nil
}
