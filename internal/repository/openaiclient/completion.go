package openaiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"procureMatch/pkg/config"

	"github.com/sashabaranov/go-openai"
)

// CompletionClient wraps an OpenAI-compatible chat/embedding endpoint.
// All provider failures (4xx, 5xx, timeouts) surface uniformly as
// errors; the engine treats them as "service unavailable".
type CompletionClient struct {
	client      *openai.Client
	model       string
	embedModel  string
	maxTokens   int
	temperature float32
}

func NewCompletionClient(cfg config.OpenAIConfig) (*CompletionClient, error) {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}

	var clientConfig openai.ClientConfig

	switch cfg.Provider {
	case "openai":
		clientConfig = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}

	case "deepseek":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.deepseek.com"
		}
		clientConfig = openai.DefaultConfig(cfg.APIKey)
		clientConfig.BaseURL = baseURL

	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		// ollama ignores the key but the client requires one
		clientConfig = openai.DefaultConfig("ollama")
		clientConfig.BaseURL = baseURL

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}

	clientConfig.HTTPClient = httpClient

	return &CompletionClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		embedModel:  cfg.EmbedModel,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
	}, nil
}

// Complete sends a single-turn prompt and returns the raw text reply.
func (c *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// EmbedQuery embeds free text for comparison against the precomputed
// catalog item vectors.
func (c *CompletionClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embedModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("embedding returned no data")
	}

	return resp.Data[0].Embedding, nil
}
