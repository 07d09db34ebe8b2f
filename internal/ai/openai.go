package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/gembakit/photopair/internal/inference"
)

// perItemTokenBudget bounds the completion size; one analysis object
// stays well under this even with a full landmark list.
const perItemTokenBudget = 700

// OpenAI talks to the chat completions API with JSON-object output.
// Structured schemas are enforced by prompt here; the response still
// flows through the same batch decoder as Gemini.
type OpenAI struct {
	client *openai.Client
	usage  Usage
}

func NewOpenAI(apiKey string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{client: &client}
}

func (p *OpenAI) Name() string {
	return "openai"
}

func (p *OpenAI) GetUsage() *Usage {
	return &p.usage
}

func (p *OpenAI) ResetUsage() {
	p.usage = Usage{}
}

func (p *OpenAI) trackUsage(inputTokens, outputTokens int64) {
	p.usage.InputTokens += int(inputTokens)
	p.usage.OutputTokens += int(outputTokens)
}

// Generate sends one batch of photos as base64 data URLs, each preceded
// by a "FILE: <name>" text part the prompt tells the model to echo back.
func (p *OpenAI) Generate(ctx context.Context, model string, temperature float64, items []inference.Item, prompt string, schema any) ([]inference.Result, error) {
	userParts := make([]openai.ChatCompletionContentPartUnionParam, 0, 2*len(items))
	for _, item := range items {
		resized, err := ResizeImage(item.Payload, maxImageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to resize %s: %w", item.Name, err)
		}
		imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(resized)
		userParts = append(userParts,
			openai.TextContentPart("FILE: "+item.Name),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL:    imageURL,
				Detail: "low",
			}),
		)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(prompt),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: userParts,
				},
			},
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		MaxTokens: openai.Int(int64(perItemTokenBudget * len(items))),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}
	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		p.trackUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	return decodeBatch([]byte(resp.Choices[0].Message.Content), items)
}

// AnalysisSchema and StationSchema are nil for OpenAI: json_object mode
// carries no schema, the prompt describes the expected fields instead.
func (p *OpenAI) AnalysisSchema() any { return nil }

func (p *OpenAI) StationSchema() any { return nil }
