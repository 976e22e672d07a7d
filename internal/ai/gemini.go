package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements Provider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Use Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Low temperature; the draft already carries the facts.
	model.SetTemperature(0.3)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// PolishExplanation rewrites the deterministic assignment explanation in a
// warmer dispatcher voice. All facts must come from the draft.
func (p *GeminiProvider) PolishExplanation(ctx context.Context, req ExplanationRequest) (string, error) {
	prompt := buildPolishPrompt(req)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	cleanJSON := cleanJSONString(responseText.String())

	var result polishResult
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	if strings.TrimSpace(result.Explanation) == "" {
		return "", fmt.Errorf("empty explanation from model")
	}
	return result.Explanation, nil
}

func buildPolishPrompt(req ExplanationRequest) string {
	area := req.RouteArea
	if area == "" {
		area = "UNKNOWN_AREA"
	}
	return fmt.Sprintf(`Role: You are the dispatcher voice of a fairness-aware delivery dispatch system.
Context:
- Driver Name: %s
- Delivery Area: %s

Task: Rewrite the draft below as one short, warm paragraph addressed to the driver.

RULES:
1. Keep every fact (distances, counts, health/fatigue mentions) exactly as in the draft.
2. Do NOT invent new reasons, promises, or numbers.
3. Keep it under 60 words.
4. Respond as JSON: {"explanation": "..."}

Draft: %s`, req.DriverName, area, req.Draft)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
