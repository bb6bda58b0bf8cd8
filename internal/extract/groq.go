package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Completer is the black-box text completion dependency of the pipeline.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// extractionTemperature keeps the model close to the source text.
const extractionTemperature = 0.1

// GroqClient calls an OpenAI-compatible chat completion API (Groq in
// production) and records per-call latency and token usage.
type GroqClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration

	Stats *Stats
}

// NewGroqClient builds a client against baseURL (DefaultGroqBaseURL when
// empty) using the given model.
func NewGroqClient(apiKey, baseURL, model string, timeout time.Duration) *GroqClient {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &GroqClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		Stats:   NewStats(time.Hour),
	}
}

// Model returns the configured model identifier.
func (c *GroqClient) Model() string {
	return c.model
}

// Complete sends the prompt as a single user message and returns the
// trimmed first-choice content.
func (c *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: extractionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("completion api: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion api returned no choices")
	}

	c.Stats.Record(time.Since(start).Milliseconds(), resp.Usage.TotalTokens)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
