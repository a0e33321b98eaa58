package llm

import (
	"context"

	"github.com/jonathan/job-matcher/internal/types"
)

// ConnectionTestResult reports the outcome of a connectivity check.
// TestConnection never returns an error; failures are folded into the result.
type ConnectionTestResult struct {
	OK       bool           `json:"ok"`
	Provider types.Provider `json:"provider"`
	Model    string         `json:"model"`
	Message  string         `json:"message,omitempty"`
}

// TestConnection performs a minimal round trip against a provider to verify
// that the key and model work. The request asks for at most 10 tokens so a
// successful test costs close to nothing.
func TestConnection(ctx context.Context, provider types.Provider, apiKey, model string) ConnectionTestResult {
	if model == "" {
		model = DefaultModel(provider)
	}

	result := ConnectionTestResult{Provider: provider, Model: model}

	client, err := NewClient(types.ProviderConfig{Provider: provider, Model: model}, apiKey)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	messages := []types.AIMessage{
		{Role: types.RoleUser, Content: "Reply with the single word OK."},
	}
	if _, err := client.SendPrompt(ctx, messages, SendOptions{MaxTokens: 10}); err != nil {
		result.Message = err.Error()
		return result
	}

	result.OK = true
	result.Message = "connection successful"
	return result
}
