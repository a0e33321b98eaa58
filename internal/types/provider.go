// Package types provides type definitions for structured data used throughout the job-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Provider identifies an LLM provider reachable over HTTPS
type Provider string

// Supported providers
const (
	// ProviderAnthropic is the Anthropic Messages API provider
	ProviderAnthropic Provider = "anthropic"
	// ProviderOpenRouter is the OpenRouter (OpenAI-compatible) provider
	ProviderOpenRouter Provider = "openrouter"
)

// IsValid reports whether p names a supported provider
func (p Provider) IsValid() bool {
	return p == ProviderAnthropic || p == ProviderOpenRouter
}

// ProviderConfig holds the active provider and model selection.
// Model is always non-empty after resolution; the resolver substitutes
// a provider-specific default when no model is persisted.
type ProviderConfig struct {
	Provider Provider `json:"provider"`
	Model    string   `json:"model"`
}

// Message roles for provider conversations
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AIMessage is a single message in a provider conversation
type AIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage reports token counts for a completed provider call
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// AIResponse is the uniform response shape returned by every provider adapter
type AIResponse struct {
	Content  string      `json:"content"`
	Model    string      `json:"model"`
	Provider Provider    `json:"provider"`
	Usage    *TokenUsage `json:"usage,omitempty"`
}

// ModelInfo describes one entry in a provider's model catalog
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}
