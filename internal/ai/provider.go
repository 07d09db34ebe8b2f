// Package ai implements the vision-language backends behind the
// inference orchestrator. A provider turns one batch of photos plus a
// prompt and a structured-output schema into per-photo analyses; retry
// and model-fallback policy live in internal/inference, never here.
package ai

import (
	"context"
	"fmt"

	"github.com/gembakit/photopair/internal/inference"
)

// Provider is one inference backend.
type Provider interface {
	Name() string

	// Generate performs a single schema-constrained batch call against a
	// concrete model. Its signature matches inference.CallFunc so the
	// orchestrator binds to it directly.
	Generate(ctx context.Context, model string, temperature float64, items []inference.Item, prompt string, schema any) ([]inference.Result, error)

	// AnalysisSchema constrains the full photo-analysis response;
	// StationSchema constrains the per-photo station vote used by
	// consensus rounds. Both are provider-native values fed back through
	// Generate's schema parameter.
	AnalysisSchema() any
	StationSchema() any

	// Usage tracking.
	GetUsage() *Usage
	ResetUsage()
}

// Usage tracks token consumption across calls.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// NewProvider builds the backend selected by name ("gemini" or "openai").
func NewProvider(ctx context.Context, name, apiKey string) (Provider, error) {
	switch name {
	case "gemini":
		return NewGemini(ctx, apiKey)
	case "openai":
		return NewOpenAI(apiKey), nil
	}
	return nil, fmt.Errorf("unknown AI provider: %q", name)
}
