// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// LogLevelDebug shows every change and composed command.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn hides watch status lines.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError shows errors only.
	LogLevelError LogLevel = "error"

	// DefaultWatchIntervalMs is the watch flush interval when unset.
	DefaultWatchIntervalMs = 350
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written by the logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the user configuration.
	Config struct {
		// Interpreter prefixes the argv of file scripts.
		Interpreter []string `json:"interpreter" mapstructure:"interpreter"`
		LogLevel    LogLevel `json:"log_level" mapstructure:"log_level"`
		Watch       Watch    `json:"watch" mapstructure:"watch"`
	}

	// Watch holds the watch-mode defaults.
	Watch struct {
		IntervalMs  int  `json:"interval_ms" mapstructure:"interval_ms"`
		ClearScreen bool `json:"clear_screen" mapstructure:"clear_screen"`
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Interpreter: []string{"deno", "run"},
		LogLevel:    LogLevelInfo,
		Watch: Watch{
			IntervalMs: DefaultWatchIntervalMs,
		},
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid returns whether the level is recognized, and the validation errors
// if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Level converts to a charmbracelet/log level. Unknown values map to info.
func (l LogLevel) Level() log.Level {
	level, err := log.ParseLevel(string(l))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid validates values that may have come from the environment, where
// the CUE schema does not apply.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if len(c.Interpreter) == 0 {
		errs = append(errs, errors.New("interpreter: must not be empty"))
	}
	if ok, levelErrs := c.LogLevel.IsValid(); !ok {
		errs = append(errs, levelErrs...)
	}
	if c.Watch.IntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("watch.interval_ms: must be positive, got %d", c.Watch.IntervalMs))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// WatchInterval returns Watch.IntervalMs as a duration.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Watch.IntervalMs) * time.Millisecond
}
