package enrich

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/domainlens/domainlens/pkg/model"
)

const defaultGeminiModel = "gemini-2.0-flash-exp"

// GeminiProvider backfills a missing static type guess by asking a Gemini
// model to name the most likely type of the source excerpt a node covers.
type GeminiProvider struct {
	model *genai.GenerativeModel
}

// NewGeminiProvider builds a GeminiProvider. apiKey falls back to
// GEMINI_API_KEY, modelName to defaultGeminiModel, matching the corpus's own
// fallback convention.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini enrichment: no API key configured")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini enrichment: creating client: %w", err)
	}

	gm := client.GenerativeModel(modelName)
	gm.SetTemperature(0.1)

	return &GeminiProvider{model: gm}, nil
}

func (p *GeminiProvider) Enrich(ctx context.Context, node model.SemanticNode) (string, bool) {
	prompt := enrichPrompt(node)
	if prompt == "" {
		return "", false
	}

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return parseTypeGuess(sb.String())
}

func enrichPrompt(node model.SemanticNode) string {
	if node.Symbol == "" {
		return ""
	}
	return fmt.Sprintf(
		"In one line, name the most likely TypeScript type of `%s` in: %s\nReply with only the type name, nothing else.",
		node.Symbol, node.Enclosing,
	)
}

func parseTypeGuess(raw string) (string, bool) {
	guess := strings.TrimSpace(raw)
	guess = strings.Trim(guess, "`\n\t ")
	if guess == "" || strings.Contains(guess, "\n") || strings.Contains(guess, " ") {
		return "", false
	}
	return guess, true
}
