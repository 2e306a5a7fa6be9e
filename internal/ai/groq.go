package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	GroqBaseURL      = "https://api.groq.com/openai/v1"
	DefaultGroqModel = "llama3-8b-8192"

	defaultTimeout = 60 * time.Second
)

// GroqProvider implements LLMProvider against Groq's OpenAI-compatible API.
// Any OpenAI-compatible endpoint works by overriding BaseURL.
type GroqProvider struct {
	client      *openai.Client
	apiKey      string
	model       string
	temperature float32
}

// NewGroqProvider builds the client. A missing key is not an error here; it is
// reported by Complete before any request leaves the process.
func NewGroqProvider(cfg Config) *GroqProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = GroqBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = DefaultGroqModel
	}

	return &GroqProvider{
		client:      openai.NewClientWithConfig(clientCfg),
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
	}
}

func (p *GroqProvider) Model() string { return p.model }

func (p *GroqProvider) Close() error { return nil }

// Complete sends prompt as a single user message in JSON mode.
func (p *GroqProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return "", ErrMissingAPIKey
	}

	temperature := p.temperature
	if temperature == 0 {
		// temperature is tagged omitempty; the smallest float keeps it on the wire.
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", groqError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq: %w: no choices", ErrEmptyCompletion)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("groq: %w", ErrEmptyCompletion)
	}
	return content, nil
}

func groqError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && isAuthStatus(apiErr.HTTPStatusCode) {
		return fmt.Errorf("groq: %w: %v", ErrInvalidAPIKey, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && isAuthStatus(reqErr.HTTPStatusCode) {
		return fmt.Errorf("groq: %w: %v", ErrInvalidAPIKey, err)
	}
	return fmt.Errorf("groq: chat completion: %w", err)
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
