package decomposition

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mateo/quotient/internal/types"
)

// defaultModel is the Gemini model used for goal decomposition.
const defaultModel = "gemini-1.5-flash"

// GeminiAdapter implements Adapter using the Gemini API.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

// NewGeminiAdapter creates a Gemini-backed decomposition adapter.
func NewGeminiAdapter(ctx context.Context, apiKey string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAdapter{client: client, model: defaultModel}, nil
}

// Analyze asks the model to decompose goals and questions into typed work
// items and parses the strict-JSON response.
func (a *GeminiAdapter) Analyze(ctx context.Context, goals, questions []string, journey types.JourneyType, dataCtx types.DataContext) (*Analysis, error) {
	model := a.client.GenerativeModel(a.model)
	model.SetTemperature(0.1) // Low temperature for consistent decomposition
	model.ResponseMIMEType = "application/json"

	prompt := buildDecompositionPrompt(goals, questions, journey, dataCtx)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate decomposition: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	return parseAnalysis(cleanJSONBlock(text))
}

// Close releases the underlying API client.
func (a *GeminiAdapter) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// buildDecompositionPrompt renders the instruction prompt for one request.
func buildDecompositionPrompt(goals, questions []string, journey types.JourneyType, dataCtx types.DataContext) string {
	var sb strings.Builder
	sb.WriteString("You are a data-analytics project planner. Decompose the goals and questions below into work items.\n\n")
	sb.WriteString("Goals:\n")
	for _, g := range goals {
		sb.WriteString("- " + g + "\n")
	}
	sb.WriteString("\nQuestions:\n")
	for _, q := range questions {
		sb.WriteString("- " + q + "\n")
	}
	fmt.Fprintf(&sb, "\nJourney type: %s\n", journey)
	fmt.Fprintf(&sb, "Dataset: %.1f MB, %d records, %d columns\n\n", dataCtx.SizeInMB, dataCtx.RecordCount, dataCtx.Columns)
	sb.WriteString(`Respond with JSON only, matching this shape:
{
  "work_items": [
    {
      "id": "wi_001",
      "name": "...",
      "description": "...",
      "type": "data-preparation|statistical-analysis|ml-modeling|visualization|validation",
      "complexity": "basic|intermediate|advanced",
      "estimated_hours": 4.0,
      "dependencies": [],
      "requirements": []
    }
  ],
  "risk_factors": ["..."],
  "total_complexity_score": 0.0,
  "estimated_total_hours": 0.0
}
`)
	return sb.String()
}

// extractTextFromResponse concatenates the text parts of a Gemini response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code fences the model sometimes emits
// despite the JSON response MIME type.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
