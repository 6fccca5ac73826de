// Package llm wraps the Groq chat-completions API. Groq speaks the OpenAI
// wire protocol, so the client is go-openai pointed at the Groq base URL.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dgallion1/docchat/internal/persona"
)

// ErrMissingAPIKey means no API key was configured. It surfaces at call
// time, not startup, so the service can boot and serve extraction without
// credentials.
var ErrMissingAPIKey = errors.New("llm: GROQ_API_KEY is not set")

// CompletionRequest carries one assembled prompt and its generation
// parameters.
type CompletionRequest struct {
	Messages    []persona.Message
	MaxTokens   int
	Temperature float32 // zero means provider default
}

// GroqClient calls the Groq chat-completions endpoint.
type GroqClient struct {
	apiKey string
	model  string
	client *openai.Client

	Stats *Stats
}

func NewGroqClient(apiKey, model, baseURL string, statsWindow time.Duration) *GroqClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqClient{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
		Stats:  NewStats(statsWindow),
	}
}

// Model returns the configured model name.
func (c *GroqClient) Model() string {
	return c.model
}

// Complete sends one assembled prompt and returns the model's answer text.
// One shot, no retries: on failure the caller substitutes a canned response.
func (c *GroqClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("groq api: %w", err)
	}

	c.Stats.Record(time.Since(start).Milliseconds(), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return resp.Choices[0].Message.Content, nil
}
