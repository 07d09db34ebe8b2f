package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gembakit/photopair/internal/inference"
	"github.com/gembakit/photopair/internal/photo"
)

// itemPayload is one element of a batch response: the filename echo plus
// the analysis fields flattened alongside it.
type itemPayload struct {
	File string `json:"file"`
	photo.Analysis
}

// decodeBatch parses a model response and matches its elements back to
// the requested items by filename. The response is either a bare JSON
// array (Gemini with a response schema) or an object wrapping it under
// "results" (OpenAI json_object mode). A malformed document is an error
// so the orchestrator retries; a missing or duplicate filename only
// affects that photo's result.
func decodeBatch(content []byte, items []inference.Item) ([]inference.Result, error) {
	payloads, err := decodePayloads(content)
	if err != nil {
		return nil, err
	}

	byFile := make(map[string]*itemPayload, len(payloads))
	for i := range payloads {
		p := &payloads[i]
		if _, dup := byFile[p.File]; !dup {
			byFile[p.File] = p
		}
	}

	results := make([]inference.Result, 0, len(items))
	for _, item := range items {
		r := inference.Result{Name: item.Name}
		if p, ok := byFile[item.Name]; ok {
			a := p.Analysis
			r.Analysis = &a
		} else {
			r.Err = "no result for this photo in the model response"
		}
		results = append(results, r)
	}
	return results, nil
}

func decodePayloads(content []byte) ([]itemPayload, error) {
	trimmed := strings.TrimSpace(string(content))

	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Results []itemPayload `json:"results"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to parse batch response: %w", err)
		}
		return wrapper.Results, nil
	}

	var payloads []itemPayload
	if err := json.Unmarshal([]byte(trimmed), &payloads); err != nil {
		return nil, fmt.Errorf("failed to parse batch response: %w", err)
	}
	return payloads, nil
}
