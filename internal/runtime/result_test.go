// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"testing"
)

func TestResultConstructors(t *testing.T) {
	t.Parallel()

	testErr := errors.New("test error")

	tests := []struct {
		name        string
		result      *Result
		wantCode    ExitCode
		wantErr     error
		wantSuccess bool
	}{
		{"error result", NewErrorResult(ExitConfigError, testErr), ExitConfigError, testErr, false},
		{"success result", NewSuccessResult(), ExitSuccess, nil, true},
		{"exit code result", NewExitCodeResult(3), 3, nil, false},
		{"zero code without error", NewErrorResult(0, nil), ExitSuccess, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.result.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", tt.result.ExitCode, tt.wantCode)
			}
			if !errors.Is(tt.result.Error, tt.wantErr) {
				t.Errorf("Error = %v, want %v", tt.result.Error, tt.wantErr)
			}
			if got := tt.result.Success(); got != tt.wantSuccess {
				t.Errorf("Success() = %v, want %v", got, tt.wantSuccess)
			}
		})
	}
}

func TestNilResultIsNotSuccess(t *testing.T) {
	t.Parallel()

	var r *Result
	if r.Success() {
		t.Error("nil Result must not report success")
	}
}
