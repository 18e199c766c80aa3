package oracle

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI sends each prompt as a single-message chat completion to an OpenAI-compatible
// endpoint, such as a local Ollama server at http://localhost:11434/v1.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a chat-completion backend. An empty baseURL uses the OpenAI API.
func NewOpenAI(baseURL, apiKey, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Generate requests one completion and returns the first choice's content.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", contextError(ctxErr)
		}
		ie := &InvocationError{Kind: KindStart, Err: err}
		var apiErr *openai.APIError
		var reqErr *openai.RequestError
		if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
			ie.Kind = KindFailed
		}
		return "", ie
	}
	if len(resp.Choices) == 0 {
		return "", &InvocationError{Kind: KindFailed, Err: errors.New("no choices returned")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
