package classify

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const defaultModel = "gpt-4o-mini"

// OpenAIReasoner is the production Reasoner backed by a chat-completion API
type OpenAIReasoner struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

// NewOpenAIReasoner creates a reasoner from OPENAI_API_KEY and
// OPENAI_MODEL. The API key is required; the model defaults to a small
// chat model when unset.
func NewOpenAIReasoner(logger *logrus.Logger) (*OpenAIReasoner, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
		logger.Warningf("OPENAI_MODEL not set, defaulting to %s", model)
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIReasoner{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger,
	}, nil
}

// Complete sends one prompt and returns the raw response text. A single
// failure surfaces to the caller as-is; there is no retry, so output
// non-determinism is never masked.
func (o *OpenAIReasoner) Complete(ctx context.Context, prompt string) (string, error) {
	o.logger.Debugf("Sending reasoning request (%d chars) to model %s", len(prompt), o.model)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a data retention and database archival expert."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
