package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/gembakit/photopair/internal/inference"
)

// Gemini talks to the Gemini API with schema-constrained JSON output.
type Gemini struct {
	client *genai.Client
	usage  Usage
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (p *Gemini) Name() string {
	return "gemini"
}

func (p *Gemini) GetUsage() *Usage {
	return &p.usage
}

func (p *Gemini) ResetUsage() {
	p.usage = Usage{}
}

func (p *Gemini) trackUsage(inputTokens, outputTokens int32) {
	p.usage.InputTokens += int(inputTokens)
	p.usage.OutputTokens += int(outputTokens)
}

// Generate sends one batch of photos as inline JPEG blobs, each preceded
// by a "FILE: <name>" marker the prompt tells the model to echo back.
func (p *Gemini) Generate(ctx context.Context, model string, temperature float64, items []inference.Item, prompt string, schema any) ([]inference.Result, error) {
	parts := []*genai.Part{{Text: prompt}}
	for _, item := range items {
		resized, err := ResizeImage(item.Payload, maxImageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to resize %s: %w", item.Name, err)
		}
		parts = append(parts,
			&genai.Part{Text: "FILE: " + item.Name},
			&genai.Part{InlineData: &genai.Blob{Data: resized, MIMEType: "image/jpeg"}},
		)
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if s, ok := schema.(*genai.Schema); ok && s != nil {
		config.ResponseSchema = s
	}
	if temperature > 0 {
		t := float32(temperature)
		config.Temperature = &t
	}

	result, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapGeminiErr(err)
	}

	if result.UsageMetadata != nil {
		p.trackUsage(result.UsageMetadata.PromptTokenCount, result.UsageMetadata.CandidatesTokenCount)
	}

	content := result.Text()
	if content == "" {
		return nil, errors.New("no response from Gemini")
	}

	return decodeBatch([]byte(content), items)
}

// wrapGeminiErr marks rate-limit and availability failures so the
// orchestrator's classifier triggers model fallback.
func wrapGeminiErr(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 503:
			return fmt.Errorf("gemini API error: %w: %w", inference.ErrRateLimited, err)
		}
	}
	return fmt.Errorf("gemini API error: %w", err)
}

func (p *Gemini) AnalysisSchema() any {
	return geminiAnalysisSchema()
}

func (p *Gemini) StationSchema() any {
	return geminiStationSchema()
}
