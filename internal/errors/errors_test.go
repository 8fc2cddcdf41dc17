package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(CodeRateLimited, "too many requests")
	want := "[RATE_LIMITED] too many requests"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "generator unreachable")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !IsCode(err, CodeUnavailable) {
		t.Error("IsCode should match the wrapping code")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{CodeUnavailable, true},
		{CodeTimeout, true},
		{CodeRateLimited, true},
		{CodeGenerationFailed, false},
		{CodeInvalidConfig, false},
		{CodeInvariant, false},
	}

	for _, tt := range tests {
		if got := IsRetryable(New(tt.code, "x")); got != tt.want {
			t.Errorf("IsRetryable(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}

	if IsRetryable(stderrors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}
