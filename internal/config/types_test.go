// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value     LogLevel
		wantValid bool
		wantLevel log.Level
	}{
		{LogLevelDebug, true, log.DebugLevel},
		{LogLevelInfo, true, log.InfoLevel},
		{LogLevelWarn, true, log.WarnLevel},
		{LogLevelError, true, log.ErrorLevel},
		{"", false, log.InfoLevel},
		{"verbose", false, log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			ok, errs := tt.value.IsValid()
			if ok != tt.wantValid {
				t.Errorf("IsValid() = %v, want %v", ok, tt.wantValid)
			}
			if !ok && !errors.Is(errs[0], ErrInvalidLogLevel) {
				t.Errorf("error should wrap ErrInvalidLogLevel: %v", errs[0])
			}
			if got := tt.value.Level(); got != tt.wantLevel {
				t.Errorf("Level() = %v, want %v", got, tt.wantLevel)
			}
		})
	}
}

func TestConfigIsValid(t *testing.T) {
	t.Parallel()

	if ok, errs := DefaultConfig().IsValid(); !ok {
		t.Fatalf("default config invalid: %v", errs)
	}

	cfg := &Config{LogLevel: "nope"}
	ok, errs := cfg.IsValid()
	if ok {
		t.Fatal("expected invalid config")
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want interpreter, log level and interval", cfgErr.FieldErrors)
	}
}
