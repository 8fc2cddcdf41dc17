package openai

import (
	"context"
	"testing"

	apperrors "github.com/dictaflow/platform/internal/errors"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New("", "gpt-4o-mini"); !apperrors.IsCode(err, apperrors.CodeInvalidConfig) {
		t.Errorf("expected invalid config error for empty key, got %v", err)
	}
}

func TestNewRequiresModel(t *testing.T) {
	if _, err := New("sk-test", ""); !apperrors.IsCode(err, apperrors.CodeInvalidConfig) {
		t.Errorf("expected invalid config error for empty model, got %v", err)
	}
}

func TestNewWithOptions(t *testing.T) {
	g, err := New("sk-test", "gpt-4o-mini", WithBaseURL("http://localhost:8080/v1"), WithTimeout(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.model != "gpt-4o-mini" {
		t.Errorf("model = %q, want %q", g.model, "gpt-4o-mini")
	}
}

func TestClassifyDeadline(t *testing.T) {
	err := classify(context.DeadlineExceeded)
	if !apperrors.IsCode(err, apperrors.CodeTimeout) {
		t.Errorf("deadline should classify as timeout, got %v", err)
	}
}
