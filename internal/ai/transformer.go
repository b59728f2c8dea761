package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/starford/neuronpad/internal/apperr"
)

// Messages surfaced to callers; upstream details are only logged.
const (
	msgNotConfigured = "GEMINI_API_KEY is not configured. Please add it to the environment."
	msgUpstream      = "AI service error. Check your API key."
	msgNoText        = "AI service returned no text."
)

// Gateway transforms note text.
type Gateway interface {
	Transform(ctx context.Context, kind Kind, text string) (string, error)
}

// Transformer is the server-side Gateway backed by a Generator.
//
// When the upstream reply has no extractable text, Transformer substitutes the
// kind's fallback string. With strict set it returns a ServiceError instead.
type Transformer struct {
	gen    Generator
	strict bool
	logger *slog.Logger
}

var _ Gateway = (*Transformer)(nil)

// NewTransformer creates a Transformer.
func NewTransformer(gen Generator, strict bool, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{gen: gen, strict: strict, logger: logger}
}

// Transform runs kind over text with a single upstream attempt.
func (t *Transformer) Transform(ctx context.Context, kind Kind, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperr.ErrEmptyInput
	}
	prompt, err := kind.Prompt(text)
	if err != nil {
		return "", err
	}
	in := instructions[kind]

	out, err := t.gen.Generate(ctx, prompt, GenerationConfig{
		Temperature:     in.temperature,
		MaxOutputTokens: in.maxOutputTokens,
	})
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, ErrNoText):
		if t.strict {
			return "", &ServiceError{Message: msgNoText, Err: err}
		}
		t.logger.Warn("ai: upstream reply had no text, using fallback",
			slog.String("kind", string(kind)), slog.String("error", err.Error()))
		return kind.Fallback(), nil
	case errors.Is(err, ErrNotConfigured):
		return "", &ServiceError{Message: msgNotConfigured, Err: err}
	default:
		t.logger.Error("ai: upstream call failed",
			slog.String("kind", string(kind)), slog.String("error", err.Error()))
		return "", &ServiceError{Message: msgUpstream, Err: err}
	}
}
