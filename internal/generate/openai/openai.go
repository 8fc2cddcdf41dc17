// Package openai provides a suggestion generator backed by the OpenAI API.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	apperrors "github.com/dictaflow/platform/internal/errors"
	"github.com/dictaflow/platform/internal/generate"
	"github.com/dictaflow/platform/internal/suggest"
)

// Generator implements generate.Generator using OpenAI chat completions.
type Generator struct {
	client oai.Client
	model  string
}

// config holds optional configuration for the generator.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Generator.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL (for compatible
// local servers).
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New constructs an OpenAI-backed generator.
func New(apiKey, model string, opts ...Option) (*Generator, error) {
	if apiKey == "" {
		return nil, apperrors.New(apperrors.CodeInvalidConfig, "openai: apiKey must not be empty")
	}
	if model == "" {
		return nil, apperrors.New(apperrors.CodeInvalidConfig, "openai: model must not be empty")
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &Generator{client: oai.NewClient(reqOpts...), model: model}, nil
}

// Generate implements generate.Generator.
func (g *Generator) Generate(ctx context.Context, text string) ([]string, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(generate.SystemPrompt),
			oai.UserMessage(generate.BuildPrompt(text)),
		},
		Temperature:         param.NewOpt(0.7),
		MaxCompletionTokens: param.NewOpt(int64(120)),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.New(apperrors.CodeGenerationFailed, "openai: empty choices in response")
	}

	suggestions := generate.ParseSuggestions(resp.Choices[0].Message.Content, suggest.MaxSuggestions)
	if len(suggestions) == 0 {
		return nil, apperrors.New(apperrors.CodeGenerationFailed, "openai: no suggestions in completion")
	}
	return suggestions, nil
}

// classify maps SDK and transport errors onto structured codes.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.CodeTimeout, "openai: request timed out")
	}

	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return apperrors.Wrap(err, apperrors.CodeRateLimited, "openai: rate limited")
		case apiErr.StatusCode == http.StatusRequestTimeout:
			return apperrors.Wrap(err, apperrors.CodeTimeout, "openai: request timed out")
		case apiErr.StatusCode >= 500:
			return apperrors.Wrap(err, apperrors.CodeUnavailable, "openai: service unavailable")
		default:
			return apperrors.Wrap(err, apperrors.CodeGenerationFailed, "openai: completion failed")
		}
	}

	return apperrors.Wrap(err, apperrors.CodeUnavailable, "openai: request failed")
}
