// Package openai implements the ai.Client interface against any
// OpenAI-compatible chat completion endpoint.
package openai

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/scribe-research/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client talks to an OpenAI-compatible chat endpoint.
//
// A Client should be created using NewClient.
type Client struct {
	model string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	chat *openai.Client
}

// NewClientParams configures a new Client. BaseURL may point at any
// OpenAI-compatible endpoint; when empty the official API is used.
type NewClientParams struct {
	Model   string
	BaseURL string
	APIKey  string
}

// NewClient creates a Client. It returns nil when no API key is
// configured, which callers treat as "no model backend available".
func NewClient(params NewClientParams) *Client {
	if params.APIKey == "" {
		return nil
	}

	options := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}

	chat := openai.NewClient(options...)

	return &Client{
		model: params.Model,
		chat:  &chat,
	}
}

func (c *Client) buildMessages(prompt string, options ai.GenerateOptions) []openai.ChatCompletionMessageParamUnion {
	msgs := []openai.ChatCompletionMessageParamUnion{}
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	return append(msgs, openai.UserMessage(prompt))
}

// GenerateCompletion sends a single-turn prompt and returns the
// generated completion as plain text.
func (c *Client) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model:       c.model,
		Temperature: 0.3,
	}
	for _, o := range opts {
		o(&options)
	}

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    c.buildMessages(prompt, options),
		Temperature: openai.Float(options.Temperature),
	}

	start := time.Now()
	response, err := c.chat.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}

	c.recordUsage(response, time.Since(start))

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model")
	}
	return response.Choices[0].Message.Content, nil
}

// GenerateCompletionWithFormat requests structured output constrained
// by the JSON schema of out and unmarshals the response into out. The
// response is parsed leniently because models occasionally emit
// malformed or double-encoded JSON.
func (c *Client) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      ai.GenerateSchema(out),
		Strict:      openai.Bool(true),
	}

	options := ai.GenerateOptions{
		Model:       c.model,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(options.Model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Messages:    c.buildMessages(prompt, options),
		Temperature: openai.Float(options.Temperature),
	}

	start := time.Now()
	response, err := c.chat.Chat.Completions.New(ctx, body)
	if err != nil {
		return err
	}

	c.recordUsage(response, time.Since(start))

	if len(response.Choices) == 0 {
		return fmt.Errorf("no choices in response from model")
	}
	return ai.UnmarshalFlexible(response.Choices[0].Message.Content, out)
}

func (c *Client) recordUsage(response *openai.ChatCompletion, elapsed time.Duration) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += int(response.Usage.PromptTokens)
	c.metrics.OutputTokens += int(response.Usage.CompletionTokens)
	c.metrics.TotalTokens += int(response.Usage.TotalTokens)
	c.metrics.DurationMs += elapsed.Milliseconds()
}

// GetMetrics returns the accumulated usage metrics.
func (c *Client) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

// ResetMetrics clears the accumulated usage metrics.
func (c *Client) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}
