package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LLMProvider defines the contract for interacting with AI models.
// Implementations are long-lived, hold the credential and model settings, and are
// safe for concurrent use.
type LLMProvider interface {
	// Complete sends a single prompt and returns the model's raw text answer.
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the configured model identifier.
	Model() string

	// Close releases client resources.
	Close() error
}

var (
	// ErrMissingAPIKey is returned before any request is made when no key is configured.
	ErrMissingAPIKey = errors.New("llm: missing api key")

	// ErrInvalidAPIKey is returned when the provider rejects the key.
	ErrInvalidAPIKey = errors.New("llm: api key rejected")

	// ErrEmptyCompletion is returned when the provider answers without any text.
	ErrEmptyCompletion = errors.New("llm: empty completion")
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config selects and configures a provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// New builds the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (LLMProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGroq:
		return NewGroqProvider(cfg), nil
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q. Use %q or %q", cfg.Provider, ProviderGroq, ProviderGemini)
	}
}
