// Package llm provides a uniform client abstraction over the supported
// LLM providers (Anthropic and OpenRouter), plus the model catalog and
// connection-testing utilities built on top of it.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/job-matcher/internal/types"
)

// SendOptions controls a single provider call
type SendOptions struct {
	MaxTokens   int
	Temperature *float64
}

// Client is an abstraction over LLM providers
type Client interface {
	// SendPrompt sends a conversation to the provider and returns the reply.
	// Fails with *ProviderError on any failure, including a missing API key
	// (checked before any network request is made).
	SendPrompt(ctx context.Context, messages []types.AIMessage, opts SendOptions) (*types.AIResponse, error)
	// Provider returns which provider this client talks to
	Provider() types.Provider
}

// Default models used when the user has not picked one
const (
	DefaultAnthropicModel  = "claude-3-5-haiku-latest"
	DefaultOpenRouterModel = "meta-llama/llama-3.3-70b-instruct:free"
)

// DefaultModel returns the compiled-in default model for a provider
func DefaultModel(provider types.Provider) string {
	if provider == types.ProviderOpenRouter {
		return DefaultOpenRouterModel
	}
	return DefaultAnthropicModel
}

// NewClient creates a provider client for the given configuration.
// The API key may be empty; SendPrompt will then fail with
// KindMissingCredential before issuing any request.
func NewClient(cfg types.ProviderConfig, apiKey string) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case types.ProviderAnthropic:
		return newAnthropicClient(model, apiKey, nil), nil
	case types.ProviderOpenRouter:
		return newOpenRouterClient(model, apiKey, nil), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %q", cfg.Provider)
	}
}

// httpDoer is the subset of *http.Client the adapters use; tests inject fakes
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
