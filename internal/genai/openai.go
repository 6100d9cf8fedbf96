package genai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider generates recommendations through the OpenAI chat
// completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider constructs the OpenAI-backed provider.
// An empty model falls back to the default.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Generate issues exactly one chat completion call. Provider failures are
// mapped onto the typed error taxonomy by HTTP status.
func (p *OpenAIProvider) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return "", providerError(apierr.StatusCode, apierr.Error())
		}
		return "", fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response carried no choices", domain.ErrProvider)
	}
	return resp.Choices[0].Message.Content, nil
}
