package enrich

import (
	"context"
	"errors"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/domainlens/domainlens/pkg/model"
)

const defaultOpenAIModel = openai.GPT4oMini

var errNoAPIKey = errors.New("openai enrichment: no API key configured")

// OpenAIProvider is the alternate Provider implementation, used when an
// embedder prefers OpenAI over Gemini for enrichment.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider builds an OpenAIProvider. apiKey falls back to
// OPENAI_API_KEY, model to defaultOpenAIModel.
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errNoAPIKey
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{client: openai.NewClient(apiKey), model: model}, nil
}

func (p *OpenAIProvider) Enrich(ctx context.Context, node model.SemanticNode) (string, bool) {
	prompt := enrichPrompt(node)
	if prompt == "" {
		return "", false
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		return "", false
	}
	return parseTypeGuess(resp.Choices[0].Message.Content)
}
