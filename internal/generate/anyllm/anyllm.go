// Package anyllm provides a suggestion generator backed by
// github.com/mozilla-ai/any-llm-go, a unified multi-provider interface that
// supports OpenAI, Anthropic, Gemini, Ollama, Groq, and more. It is the path
// for running against local inference servers without an API key.
package anyllm

import (
	"context"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	apperrors "github.com/dictaflow/platform/internal/errors"
	"github.com/dictaflow/platform/internal/generate"
	"github.com/dictaflow/platform/internal/suggest"
)

// Generator implements generate.Generator by wrapping any-llm-go.
type Generator struct {
	backend anyllmlib.Provider
	model   string
}

// New creates a Generator backed by the given provider name.
//
// backendName is one of: "openai", "anthropic", "gemini", "ollama", "groq".
// model is the specific model to use (e.g., "gpt-4o-mini", "llama3.2").
//
// opts are any-llm-go configuration options (e.g., anyllmlib.WithAPIKey,
// anyllmlib.WithBaseURL). Without an API key option the backend falls back
// to its usual environment variable (OPENAI_API_KEY, ANTHROPIC_API_KEY, ...).
func New(backendName, model string, opts ...anyllmlib.Option) (*Generator, error) {
	if backendName == "" {
		return nil, apperrors.New(apperrors.CodeInvalidConfig, "anyllm: backendName must not be empty")
	}
	if model == "" {
		return nil, apperrors.New(apperrors.CodeInvalidConfig, "anyllm: model must not be empty")
	}

	backend, err := createBackend(backendName, opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{backend: backend, model: model}, nil
}

// createBackend creates the underlying any-llm-go provider.
func createBackend(backendName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(backendName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "groq":
		return groq.New(opts...)
	default:
		return nil, apperrors.Newf(apperrors.CodeInvalidConfig,
			"anyllm: unsupported backend %q; supported: openai, anthropic, gemini, ollama, groq", backendName)
	}
}

// Generate implements generate.Generator.
func (g *Generator) Generate(ctx context.Context, text string) ([]string, error) {
	temp := 0.7
	maxTokens := 120
	params := anyllmlib.CompletionParams{
		Model: g.model,
		Messages: []anyllmlib.Message{
			{Role: anyllmlib.RoleSystem, Content: generate.SystemPrompt},
			{Role: "user", Content: generate.BuildPrompt(text)},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}

	resp, err := g.backend.Completion(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeTimeout, "anyllm: completion timed out")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "anyllm: completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.New(apperrors.CodeGenerationFailed, "anyllm: empty choices in response")
	}

	suggestions := generate.ParseSuggestions(resp.Choices[0].Message.ContentString(), suggest.MaxSuggestions)
	if len(suggestions) == 0 {
		return nil, apperrors.New(apperrors.CodeGenerationFailed, "anyllm: no suggestions in completion")
	}
	return suggestions, nil
}
