// Package synth talks to a generative model to synthesize test cases and
// automation scripts, and owns the strict validation of model output.
package synth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/caseforge/caseforge/log"
)

// Default generation parameters. Case synthesis runs slightly warmer than
// script synthesis, which wants deterministic code.
const (
	DefaultCaseTemperature   = 0.5
	DefaultScriptTemperature = 0.3
	DefaultCaseMaxTokens     = 1500
	DefaultScriptMaxTokens   = 2000
)

// Config configures the model client.
type Config struct {
	// BaseURL is an OpenAI-compatible endpoint. Empty uses the provider
	// default.
	BaseURL string
	// Model is the model name (required).
	Model string
	// APIKey authenticates requests (required).
	APIKey string
}

// Validate checks required client configuration.
func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("model name is required")
	}
	if c.APIKey == "" {
		return errors.New("api key is required")
	}
	return nil
}

// Client synthesizes test cases and scripts through a single injected
// model. There is no package-level client; construction failures surface to
// the caller instead of leaving a nil global behind.
type Client struct {
	model  llms.Model
	config Config
	logger *log.Logger
}

// New creates a client backed by an OpenAI-compatible endpoint.
func New(cfg Config, logger *log.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid synth config: %w", err)
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}

	return &Client{model: model, config: cfg, logger: logger}, nil
}

// NewWithModel creates a client around an existing model. Used for test
// injection.
func NewWithModel(model llms.Model, cfg Config, logger *log.Logger) *Client {
	return &Client{model: model, config: cfg, logger: logger}
}

// generate sends one system+user exchange and returns the model's text.
func (c *Client) generate(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}
